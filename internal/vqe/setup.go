package vqe

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/qsolve/vqefit/internal/molecule"
	"github.com/qsolve/vqefit/internal/opt"
	"github.com/qsolve/vqefit/internal/quantum"
	"github.com/qsolve/vqefit/internal/store"
)

// Initialization strategies for the starting parameters.
const (
	InitHF     = "hf"     // reference state, all parameters zero
	InitRandom = "random" // uniform in [-pi, pi], seeded
	InitGlobal = "global" // gradient-free global search seeds the start
)

// Problem bundles everything a run needs: the target system, the trial
// circuit, the cost and gradient closures, the update rule, and the
// starting parameters. Built from a RunConfig by BuildProblem.
type Problem struct {
	Molecule *molecule.Molecule
	Ansatz   quantum.Ansatz
	Cost     CostFunc
	Grad     GradFunc
	Rule     opt.Rule
	Initial  []float64
}

// BuildProblem resolves a run configuration into a runnable problem.
// Defaults: double-excitation ansatz, gradient descent with lr 0.4,
// Hartree-Fock (all zeros) initialization.
func BuildProblem(cfg store.RunConfig) (*Problem, error) {
	mol, err := molecule.Load(cfg.Molecule)
	if err != nil {
		return nil, err
	}

	ansatz, err := buildAnsatz(cfg.Ansatz, mol.NumQubits)
	if err != nil {
		return nil, err
	}

	rule, err := buildRule(cfg.Optimizer, cfg.LearningRate)
	if err != nil {
		return nil, err
	}

	energy := quantum.EnergyFunc(mol.Hamiltonian, ansatz)
	gradient := quantum.ParameterShiftGradient(mol.Hamiltonian, ansatz)

	initial, err := buildInitial(cfg, ansatz.NumParams(), energy)
	if err != nil {
		return nil, err
	}

	return &Problem{
		Molecule: mol,
		Ansatz:   ansatz,
		Cost:     CostFunc(energy),
		Grad:     GradFunc(gradient),
		Rule:     rule,
		Initial:  initial,
	}, nil
}

func buildAnsatz(name string, numQubits int) (quantum.Ansatz, error) {
	switch name {
	case "", "double-excitation":
		return quantum.NewDoubleExcitationAnsatz(numQubits)
	case "ry":
		return quantum.NewRYAnsatz(numQubits)
	default:
		return nil, fmt.Errorf("unknown ansatz: %s", name)
	}
}

func buildRule(name string, lr float64) (opt.Rule, error) {
	if lr <= 0 {
		lr = 0.4
	}
	switch name {
	case "", "gd":
		return opt.NewGradientDescent(lr), nil
	case "momentum":
		return opt.NewMomentum(lr, 0.9), nil
	case "adam":
		return opt.NewAdam(lr), nil
	case "adagrad":
		return opt.NewAdaGrad(lr), nil
	default:
		return nil, fmt.Errorf("unknown optimizer: %s", name)
	}
}

func buildInitial(cfg store.RunConfig, numParams int, energy func([]float64) (float64, error)) ([]float64, error) {
	switch cfg.Init {
	case "", InitHF:
		return make([]float64, numParams), nil

	case InitRandom:
		rng := rand.New(rand.NewSource(cfg.Seed))
		params := make([]float64, numParams)
		for i := range params {
			params[i] = (2*rng.Float64() - 1) * math.Pi
		}
		return params, nil

	case InitGlobal:
		lower := make([]float64, numParams)
		upper := make([]float64, numParams)
		for i := range lower {
			lower[i] = -math.Pi
			upper[i] = math.Pi
		}
		eval := func(params []float64) float64 {
			e, err := energy(params)
			if err != nil {
				return math.Inf(1)
			}
			return e
		}
		searcher := opt.NewMayfly(50, 20, cfg.Seed)
		params, _ := searcher.Search(eval, lower, upper, numParams)
		return params, nil

	default:
		return nil, fmt.Errorf("unknown init strategy: %s", cfg.Init)
	}
}
