package models

// LoadingPhase is the tag of LoadingState.
type LoadingPhase int

const (
	PhaseLoading LoadingPhase = iota
	PhaseLoaded
	PhaseError
)

// LoadingState is the startup state of the data layer. Message is set only
// in PhaseError.
type LoadingState struct {
	Phase   LoadingPhase
	Message string
}

func Loading() LoadingState { return LoadingState{Phase: PhaseLoading} }
func Loaded() LoadingState  { return LoadingState{Phase: PhaseLoaded} }

func LoadFailed(msg string) LoadingState {
	return LoadingState{Phase: PhaseError, Message: msg}
}

func (s LoadingState) String() string {
	switch s.Phase {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	default:
		return "error: " + s.Message
	}
}

type WeatherPhase int

const (
	WeatherIdle WeatherPhase = iota
	WeatherLoading
	WeatherLoaded
	WeatherError
)

// WeatherState holds Weather only in WeatherLoaded and Message only in
// WeatherError.
type WeatherState struct {
	Phase   WeatherPhase
	Weather *Weather
	Message string
}

func WeatherFetching() WeatherState { return WeatherState{Phase: WeatherLoading} }

func WeatherReady(w Weather) WeatherState {
	return WeatherState{Phase: WeatherLoaded, Weather: &w}
}

func WeatherFailed(msg string) WeatherState {
	return WeatherState{Phase: WeatherError, Message: msg}
}
