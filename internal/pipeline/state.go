// internal/pipeline/state.go
package pipeline

import "fmt"

// Stage names the orchestrator's states. Progression is linear; each
// stage's output feeds the next, except diversity and contamination
// which both run off the clustering + taxonomy outputs.
type Stage string

const (
	StageInit          Stage = "init"
	StageFiltering     Stage = "filtering"
	StageClustering    Stage = "clustering"
	StageTaxonomy      Stage = "taxonomy_assignment"
	StageDiversity     Stage = "diversity_calc"
	StageContamination Stage = "contamination_check"
	StageDone          Stage = "done"
)

var nextStage = map[Stage]Stage{
	StageInit:          StageFiltering,
	StageFiltering:     StageClustering,
	StageClustering:    StageTaxonomy,
	StageTaxonomy:      StageDiversity,
	StageDiversity:     StageContamination,
	StageContamination: StageDone,
}

// advance moves the report to the next stage, guarding against skipped
// or repeated transitions. A violation indicates an orchestrator bug,
// not a data problem.
func advance(current Stage, to Stage) error {
	if nextStage[current] != to {
		return fmt.Errorf("disallowed stage transition: %s -> %s", current, to)
	}
	return nil
}
