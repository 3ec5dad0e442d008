package flow

// Compile walks a Flow and produces the StreamConsumer it denotes, or nil
// if the flow is already terminal.
//
// initialHandler is the command handler to install if the walk reaches a
// wait point without passing through an InstallHandler node first — the
// empty/zero handler for a freshly started flow, or the handler most
// recently installed when Compile is re-entered from a WaitFor
// continuation.
func Compile[C, E any](initialHandler CommandHandler[C, E], f Flow[C, E]) *StreamConsumer[C, E] {
	switch f.kind {
	case kindDone:
		return nil

	case kindInstallHandler:
		// installHandler is processed before any wait it leads to, so the
		// wait inherits the newly installed handler (spec §4.1 tie-break).
		return Compile(f.handler, *f.next)

	case kindWaitFor:
		sc := &StreamConsumer[C, E]{CurrentCommandHandler: initialHandler}
		sc.stepFn = func(e E) *StreamConsumer[C, E] {
			next, matched := f.step(e)
			if !matched {
				// Back-edge to self: the flow did not lose its handler just
				// because an unrelated event was observed.
				return sc
			}
			return Compile(initialHandler, next)
		}
		return sc

	default:
		return nil
	}
}
