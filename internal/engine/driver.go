package engine

// simulateDriver is the inline program handed to the interpreter for a
// simulation run. It reads the YAML payload from stdin (never the command
// line), builds the currency-normalization config, calls the engine, and
// prints exactly one line of JSON to stdout.
const simulateDriver = `import json, sys
from crml_engine.simulation.engine import run_monte_carlo
from crml_engine.models.fx_model import FXConfig

payload = sys.stdin.read()
runs = int(sys.argv[1])
seed = int(sys.argv[2]) if sys.argv[2] else None
currency = sys.argv[3]

res = run_monte_carlo(payload, n_runs=runs, seed=seed, fx_config=FXConfig(output_currency=currency))
doc = res.to_dict() if hasattr(res, "to_dict") else res.model_dump()
meta = doc.get("metadata") or {}

out = {
    "crml_simulation_result": "1.0",
    "result": {
        "success": bool(doc.get("success")),
        "errors": doc.get("errors") or [],
        "warnings": doc.get("warnings") or [],
        "engine": {"name": "crml-engine", "version": str(meta.get("engine_version") or meta.get("model_version") or "unknown")},
        "run": {"runs": runs, "seed": seed, "output_currency": currency},
        "inputs": {"source": "inline"},
        "results": {
            "measures": [doc["metrics"]] if doc.get("metrics") else [],
            "artifacts": [doc["distribution"]] if doc.get("distribution") else [],
        },
    },
}
print(json.dumps(out, default=str))
`
