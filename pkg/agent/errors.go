package agent

import "errors"

// Sentinel errors the assembly and tick loop report through. Callers
// distinguish them with errors.Is; the wrapped detail (which timeline,
// which reactor) is carried in the wrapping error's message.
var (
	// ErrPriorityCycle means the reactors' external/internal timeline
	// declarations form a publish/subscribe cycle, so no valid
	// synchronize/deliberate ordering exists.
	ErrPriorityCycle = errors.New("agent: reactor priority graph contains a cycle")

	// ErrUnclaimedExternal means some reactor declared a timeline External
	// that no reactor declared Internal.
	ErrUnclaimedExternal = errors.New("agent: external timeline has no owning reactor")

	// ErrDuplicateInternal means two reactors both declared the same
	// timeline Internal.
	ErrDuplicateInternal = errors.New("agent: timeline claimed internal by more than one reactor")

	// ErrSynchronizeFailed means a reactor's Synchronize call returned
	// false, or panicked, during a tick.
	ErrSynchronizeFailed = errors.New("agent: reactor synchronize failed")

	// ErrResumeFailed means a reactor's Resume call returned false, or
	// panicked, during deliberation.
	ErrResumeFailed = errors.New("agent: reactor resume failed")
)
