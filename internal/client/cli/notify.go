package cli

import (
	"sync"

	"github.com/dmitrijs2005/oculog/internal/client/location"
	"github.com/dmitrijs2005/oculog/internal/client/models"
)

const (
	noticeWeather  = "weather"
	noticeLocation = "location"
)

// notices holds the latest message per kind pushed by background state
// changes. The REPL prints and empties it before each prompt.
type notices struct {
	mu      sync.Mutex
	order   []string
	pending map[string]string
}

func (n *notices) set(kind, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.pending == nil {
		n.pending = make(map[string]string)
	}
	if _, ok := n.pending[kind]; !ok {
		n.order = append(n.order, kind)
	}
	n.pending[kind] = msg
}

// drop forgets a pending message, used when a command has just shown the
// same information.
func (n *notices) drop(kind string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.pending, kind)
}

func (n *notices) drain() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, k := range n.order {
		if msg, ok := n.pending[k]; ok {
			out = append(out, msg)
		}
	}
	n.order, n.pending = nil, nil
	return out
}

// watch subscribes to the weather and location state so results of
// background fetches reach the user.
func (a *App) watch() {
	a.unsubs = append(a.unsubs,
		a.data.Weather().Subscribe(func(st models.WeatherState) {
			switch st.Phase {
			case models.WeatherLoaded:
				a.notices.set(noticeWeather, "Weather updated: "+describeWeather(*st.Weather))
			case models.WeatherError:
				a.notices.set(noticeWeather, a.styles.err.Render("Weather: "+st.Message))
			}
		}),
		a.data.Tracker().Subscribe(func(st location.State) {
			if !st.IsRequesting && st.ErrorMessage != "" {
				a.notices.set(noticeLocation, a.styles.warn.Render(st.ErrorMessage))
			}
		}),
	)
}

func (a *App) printNotices() {
	for _, msg := range a.notices.drain() {
		a.println(msg)
	}
}
