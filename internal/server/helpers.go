package server

import (
	"net/http"
)

// indexHTML is a minimal dashboard that drives the JSON API. It lists
// jobs, shows live progress over SSE and embeds the chart endpoints.
const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>vqefit</title>
<style>
body { font-family: sans-serif; margin: 2em; max-width: 60em; }
table { border-collapse: collapse; width: 100%; }
td, th { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: left; }
img { max-width: 100%; margin-top: 1em; }
code { background: #f4f4f4; padding: 0.1em 0.3em; }
</style>
</head>
<body>
<h1>vqefit</h1>
<p>Create a run with
<code>POST /api/v1/jobs {"molecule":"h2","optimizer":"gd","maxIterations":100}</code></p>
<table id="jobs"><tr><th>ID</th><th>State</th><th>Molecule</th><th>Energy</th><th>Iterations</th></tr></table>
<div id="charts"></div>
<script>
async function refresh() {
  const res = await fetch('/api/v1/jobs');
  const jobs = await res.json();
  const table = document.getElementById('jobs');
  table.innerHTML = '<tr><th>ID</th><th>State</th><th>Molecule</th><th>Energy</th><th>Iterations</th></tr>';
  const charts = document.getElementById('charts');
  charts.innerHTML = '';
  for (const job of jobs) {
    const row = table.insertRow();
    row.insertCell().textContent = job.id;
    row.insertCell().textContent = job.state;
    row.insertCell().textContent = job.config.molecule;
    row.insertCell().textContent = job.energy.toFixed(6);
    row.insertCell().textContent = job.iterations;
    if (job.iterations > 0) {
      const img = document.createElement('img');
      img.src = '/api/v1/jobs/' + job.id + '/energy.png?t=' + Date.now();
      charts.appendChild(img);
    }
  }
}
refresh();
setInterval(refresh, 2000);
</script>
</body>
</html>
`

// handleIndex serves the dashboard page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}
