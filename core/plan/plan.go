package plan

import "github.com/watthuis/spotplan/core/planner"

// Publisher hands a selected plan to the collaborator that issues the
// actual device control commands. The engine itself never talks to devices.
type Publisher interface {
	PublishPlan(resp planner.Response) error
}
