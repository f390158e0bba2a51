package pipeline

import (
	"github.com/matzehuels/callsurface/pkg/callstate"
	"github.com/matzehuels/callsurface/pkg/errors"
	"github.com/matzehuels/callsurface/pkg/render/frame"
	"github.com/matzehuels/callsurface/pkg/scenario"
	"github.com/matzehuels/callsurface/pkg/surface/toast"
)

// LayoutRequest is one call state to lay out with no animation. This struct
// supports JSON serialization for API requests.
type LayoutRequest struct {
	Snapshot callstate.Snapshot `json:"snapshot"`
	Muted    bool               `json:"muted,omitempty"`
	Toasts   []toast.Kind       `json:"toasts,omitempty"`
	Peer     string             `json:"peer,omitempty"`
	// Interaction defaults to enabled.
	Interaction *bool `json:"interaction,omitempty"`
}

// Validate checks the request.
func (r *LayoutRequest) Validate() error {
	if err := r.Snapshot.Validate(); err != nil {
		return err
	}
	seen := toast.Set(0)
	for _, k := range r.Toasts {
		if seen.Has(k) {
			return errors.New(errors.ErrCodeInvalidInput, "toast %s listed twice", k)
		}
		seen = seen.With(k)
	}
	return nil
}

// Layout settles the engines on one state and captures the result.
func Layout(req LayoutRequest, opts Options) (frame.Frame, error) {
	if err := opts.Validate(); err != nil {
		return frame.Frame{}, err
	}
	if err := req.Validate(); err != nil {
		return frame.Frame{}, err
	}

	stage := NewStage(opts, opts.Logger)
	if req.Peer != "" {
		stage.Peer = req.Peer
	}
	if req.Interaction != nil {
		stage.Buttons.SetInteractionEnabled(*req.Interaction)
	}
	stage.Apply(scenario.State{
		Snapshot: req.Snapshot,
		Muted:    req.Muted,
		Toasts:   toast.SetOf(req.Toasts...),
	}, false)

	opts.Logger.Debug("laid out state",
		"state", req.Snapshot.Class,
		"controls", len(stage.Buttons.Controls()),
		"toasts", len(req.Toasts))
	return stage.Capture(0), nil
}
