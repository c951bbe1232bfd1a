package tool

// RegisterBuiltins installs the tool factories shipped with the harness.
// Safe to call more than once; later registrations replace earlier ones.
func RegisterBuiltins(r *Registry) {
	r.Register("context_probe", true, newContextProbe)
	r.Register("calculator", true, newCalculator)
	r.Register("csp_solver", false, newCSPSolver)
	r.Register("web_fetch", true, newWebFetch)
}
