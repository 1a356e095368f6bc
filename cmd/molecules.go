package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/qsolve/vqefit/internal/molecule"
	"github.com/spf13/cobra"
)

var moleculesCmd = &cobra.Command{
	Use:   "molecules",
	Short: "List available molecule presets",
	RunE:  runListMolecules,
}

func init() {
	rootCmd.AddCommand(moleculesCmd)
}

func runListMolecules(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tFORMULA\tQUBITS\tTERMS\tREFERENCE (Ha)")
	fmt.Fprintln(w, "--\t----\t-------\t------\t-----\t--------------")

	for _, id := range molecule.List() {
		mol, err := molecule.Load(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.6f\n",
			mol.ID,
			mol.Name,
			mol.Formula,
			mol.NumQubits,
			len(mol.Hamiltonian.Terms),
			mol.ReferenceEnergy,
		)
	}

	return w.Flush()
}
