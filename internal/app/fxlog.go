package app

import (
	"github.com/rs/zerolog/log"
	"go.uber.org/fx/fxevent"
)

// eventLogger routes fx lifecycle events to the global zerolog logger.
// Successful wiring events are logged at debug level only.
type eventLogger struct{}

func (l *eventLogger) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.OnStartExecuted:
		if e.Err != nil {
			log.Error().Err(e.Err).Str("callee", e.FunctionName).Msg("fx: start hook failed")
			return
		}
		log.Debug().Str("callee", e.FunctionName).Dur("runtime", e.Runtime).Msg("fx: start hook")
	case *fxevent.OnStopExecuted:
		if e.Err != nil {
			log.Error().Err(e.Err).Str("callee", e.FunctionName).Msg("fx: stop hook failed")
			return
		}
		log.Debug().Str("callee", e.FunctionName).Dur("runtime", e.Runtime).Msg("fx: stop hook")
	case *fxevent.Provided:
		if e.Err != nil {
			log.Error().Err(e.Err).Msg("fx: provide failed")
			return
		}
		for _, typ := range e.OutputTypeNames {
			log.Debug().Str("type", typ).Str("constructor", e.ConstructorName).Msg("fx: provided")
		}
	case *fxevent.Invoked:
		if e.Err != nil {
			log.Error().Err(e.Err).Str("function", e.FunctionName).Msg("fx: invoke failed")
		}
	case *fxevent.Started:
		if e.Err != nil {
			log.Error().Err(e.Err).Msg("fx: start failed")
			return
		}
		log.Debug().Msg("fx: started")
	case *fxevent.Stopped:
		if e.Err != nil {
			log.Error().Err(e.Err).Msg("fx: stop failed")
		}
	case *fxevent.Stopping:
		log.Debug().Str("signal", e.Signal.String()).Msg("fx: stopping")
	}
}
