package checkpoint

import (
	"strconv"
)

// TopologyRoot returns root/topology.
func TopologyRoot(root, topologyName string) string {
	return root + "/" + topologyName
}

// CheckpointDir returns root/topology/checkpointID/component.
func CheckpointDir(root, topologyName, checkpointID, component string) string {
	return TopologyRoot(root, topologyName) + "/" + checkpointID + "/" + component
}

// CheckpointPath returns root/topology/checkpointID/component/taskID.
func CheckpointPath(root, topologyName, checkpointID, component string, taskID int32) string {
	return CheckpointDir(root, topologyName, checkpointID, component) + "/" + strconv.FormatInt(int64(taskID), 10)
}
