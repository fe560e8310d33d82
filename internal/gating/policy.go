// Package gating holds the free-tier limits and the review prompt rule.
package gating

import "go.uber.org/zap"

// Default policy constants.
const (
	DefaultFreeProjectLimit = 3
	DefaultReviewThreshold  = 5
)

// FullVersionKey is the settings key of the paid-unlock flag.
const FullVersionKey = "fullVersionUnlocked"

// Policy decides what the free tier may do.
type Policy struct {
	// FreeProjectLimit is how many projects may exist without the unlock.
	FreeProjectLimit int

	// ReviewThreshold is the project count at which a review is requested.
	ReviewThreshold int
}

// DefaultPolicy returns the stock limits.
func DefaultPolicy() Policy {
	return Policy{
		FreeProjectLimit: DefaultFreeProjectLimit,
		ReviewThreshold:  DefaultReviewThreshold,
	}
}

// CanCreateProject reports whether one more project may be created.
func (p Policy) CanCreateProject(unlocked bool, projectCount int) bool {
	return unlocked || projectCount < p.FreeProjectLimit
}

// ShouldRequestReview reports whether the project count warrants a review prompt.
func (p Policy) ShouldRequestReview(projectCount int) bool {
	return projectCount >= p.ReviewThreshold
}

// SceneState is the activation state of a UI scene.
type SceneState int

const (
	SceneUnattached SceneState = iota
	SceneForegroundActive
	SceneForegroundInactive
	SceneBackground
)

// Scene is a connected window or terminal the app is drawing into.
type Scene struct {
	ID    string
	State SceneState
}

// SceneProvider lists the app's connected scenes.
type SceneProvider interface {
	ConnectedScenes() []Scene
}

// ReviewPrompter asks the platform to show a "rate this app" prompt.
// It is best effort and reports nothing back.
type ReviewPrompter interface {
	RequestReview(scene Scene)
}

// ForegroundScene returns the first foreground-active scene.
func ForegroundScene(p SceneProvider) (Scene, bool) {
	if p == nil {
		return Scene{}, false
	}
	for _, s := range p.ConnectedScenes() {
		if s.State == SceneForegroundActive {
			return s, true
		}
	}
	return Scene{}, false
}

// LogPrompter is a ReviewPrompter for platforms without a native prompt:
// it logs the request so a wrapper can act on it.
type LogPrompter struct {
	Logger *zap.Logger
}

// RequestReview logs the prompt.
func (l LogPrompter) RequestReview(scene Scene) {
	if l.Logger == nil {
		return
	}
	l.Logger.Info("review prompt requested", zap.String("scene", scene.ID))
}

// StaticScenes is a SceneProvider with a fixed list.
type StaticScenes []Scene

// ConnectedScenes returns the list.
func (s StaticScenes) ConnectedScenes() []Scene { return s }
