/*


Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1

// ClusterPhase is the step a cluster start has reached. A start moves through
// the phases strictly in order; any failure moves it to ClusterAborted.
type ClusterPhase string

const (
	// ClusterInit indicates nothing has been done yet.
	ClusterInit ClusterPhase = "Init"
	// ClusterRegistryOpened indicates the registry file has been truncated and is held open.
	ClusterRegistryOpened ClusterPhase = "RegistryOpened"
	// ClusterDirsCreated indicates every node data directory exists.
	ClusterDirsCreated ClusterPhase = "DirsCreated"
	// ClusterLaunching indicates nodes are being launched one at a time.
	ClusterLaunching ClusterPhase = "Launching"
	// ClusterRouterReady indicates the router accepted a connection.
	ClusterRouterReady ClusterPhase = "RouterReady"
	// ClusterIdentifiersWritten indicates the registry holds one line per launched node and is closed.
	ClusterIdentifiersWritten ClusterPhase = "IdentifiersWritten"
	// ClusterDone indicates the start completed.
	ClusterDone ClusterPhase = "Done"
	// ClusterAborted indicates a step failed and the start stopped there.
	ClusterAborted ClusterPhase = "Aborted"
)

// NodeSpec describes one node of the test cluster.
type NodeSpec struct {
	Name string `json:"name"`
	Role string `json:"role"`
	Port int    `json:"port"`

	// +optional
	DataDir string `json:"dataDir,omitempty"`

	LogPath string `json:"logPath"`

	Binary string   `json:"binary"`
	Args   []string `json:"args"`
}

// LaunchedNode is a node whose launch reported a forked process id.
type LaunchedNode struct {
	Name string `json:"name"`
	PID  string `json:"pid"`
}

// ClusterStatus is the observed state of a cluster start.
type ClusterStatus struct {
	RunID string       `json:"runId"`
	Phase ClusterPhase `json:"phase"`

	// Launched is in launch order.
	Launched []LaunchedNode `json:"launched,omitempty"`

	// +optional
	Message string `json:"message,omitempty"`
}
