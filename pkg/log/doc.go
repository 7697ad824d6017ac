/*
Package log provides zerolog-based diagnostic logging for Trackline
components.

This is the engine's own operational log: startup messages, swallowed
write failures, rotation errors. It is distinct from pkg/txnlog, which
persists user transaction records: diagnostics go to the console (or
any writer), transactions go to the rotating data file.

# Usage

	log.Init(log.Config{Level: log.DebugLevel})
	log.Info("engine ready")

	diag := log.WithComponent("txnlog")
	diag.Warn().Err(err).Msg("sink flush failed")
*/
package log
