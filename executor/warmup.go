package executor

import "context"

// warmupSource is a minimal document that forces the engine to load (and for
// tectonic, download) its format and base packages before the first real
// request hits the pool.
const warmupSource = `\documentclass{article}
\begin{document}
warmup
\end{document}
`

// Warmup runs one throwaway compile so the first user request does not pay
// the engine's cold-start cost. Failures are reported but not fatal.
func Warmup(c *Compiler) error {
	res := c.Compile(context.Background(), "warmup", warmupSource)
	return res.Err
}
