package mender

import "github.com/pkg/errors"

// Checkpoint is a state the agent can be told to stop before entering.
type Checkpoint int

const (
	// NoCheckpoint lets the agent run the operation to completion.
	NoCheckpoint Checkpoint = iota
	ArtifactInstallEnter
	ArtifactCommitEnter
	ArtifactCommitLeave
	ArtifactRollbackEnter
	ArtifactFailureEnter
	Cleanup
)

var checkpointNames = map[Checkpoint]string{
	ArtifactInstallEnter:  "ArtifactInstall_Enter",
	ArtifactCommitEnter:   "ArtifactCommit_Enter",
	ArtifactCommitLeave:   "ArtifactCommit_Leave",
	ArtifactRollbackEnter: "ArtifactRollback_Enter",
	ArtifactFailureEnter:  "ArtifactFailure_Enter",
	Cleanup:               "Cleanup",
}

// String returns the name the agent uses for the checkpoint, or the empty
// string for NoCheckpoint.
func (c Checkpoint) String() string {
	return checkpointNames[c]
}

// ParseCheckpoint converts an agent state name into a Checkpoint. The empty
// string yields NoCheckpoint.
func ParseCheckpoint(name string) (Checkpoint, error) {
	if name == "" {
		return NoCheckpoint, nil
	}
	for c, n := range checkpointNames {
		if n == name {
			return c, nil
		}
	}
	return NoCheckpoint, errors.Errorf("unknown checkpoint %q", name)
}
