package layout

import (
	"github.com/laakri/flowcanvas/backend-go/internal/document"
	"github.com/laakri/flowcanvas/backend-go/internal/geom"
)

type TargetKind string

const (
	TargetCanvas TargetKind = "canvas"
	TargetNode   TargetKind = "node"
	TargetPort   TargetKind = "port"
)

// Target is what a pointer landed on.
type Target struct {
	Kind   TargetKind        `json:"kind"`
	NodeID string            `json:"nodeId,omitempty"`
	Port   *document.PortRef `json:"port,omitempty"`
}

func CanvasTarget() Target { return Target{Kind: TargetCanvas} }

func NodeTarget(id string) Target { return Target{Kind: TargetNode, NodeID: id} }

func PortTarget(p document.PortRef) Target {
	return Target{Kind: TargetPort, NodeID: p.NodeID, Port: &p}
}

// HitTest resolves a world point against nodes given back to front. Nodes
// are tried topmost first; on each node its port handles win over its body,
// so a node in front hides the handles of the nodes behind it. handleRadius
// is in world units.
func HitTest(nodes []document.Node, world geom.Point, handleRadius float64) Target {
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		if !Reach(n, handleRadius).Contains(world) {
			continue
		}
		for _, p := range Ports(n) {
			if p.Position.Dist(world) <= handleRadius {
				return PortTarget(p.Ref)
			}
		}
		if Bounds(n).Contains(world) {
			return NodeTarget(n.ID)
		}
	}
	return CanvasTarget()
}
