package render

import (
	"strings"

	"lldpgraph/internal/domain"
)

// DefaultEdgeColor is used for interface pairs with no table entry
const DefaultEdgeColor = "#808b96"

// NodeStyle defines how a node is drawn.
type NodeStyle struct {
	Size  int
	Shape string
	Image string
}

// edgeColorRule matches on interface-name prefixes. An empty prefix matches
// anything; either marks a rule that fires when one side matches local.
type edgeColorRule struct {
	local  string
	remote string
	either bool
	color  string
}

// edgeColorRules is evaluated top to bottom; order matters.
var edgeColorRules = []edgeColorRule{
	{local: "hu", remote: "hu", color: "#ec407a"},
	{local: "twe", remote: "twe", color: "#00bcd4"},
	{local: "te", remote: "te", color: "#03a9f4"},
	{local: "twe", remote: "te", color: "#03a9f4"},
	{local: "te", remote: "twe", color: "#03a9f4"},
	{local: "te", remote: "eth", color: "#03a9f4"},
	{local: "gi", remote: "gi", color: "#1065d2"},
	{local: "te", remote: "gi", color: "#1065d2"},
	{local: "gi", remote: "te", color: "#1065d2"},
	{local: "fa", either: true, color: "#1065d2"},
}

// EdgeColor picks the link color from the local and remote interface names
func EdgeColor(localIntf, remoteIntf string) string {
	l := strings.ToLower(localIntf)
	r := strings.ToLower(remoteIntf)

	for _, rule := range edgeColorRules {
		if rule.either {
			if strings.HasPrefix(l, rule.local) || strings.HasPrefix(r, rule.local) {
				return rule.color
			}
			continue
		}
		if strings.HasPrefix(l, rule.local) && strings.HasPrefix(r, rule.remote) {
			return rule.color
		}
	}
	return DefaultEdgeColor
}

var roleStyles = map[domain.NodeRole]NodeStyle{
	domain.NodeRoleRouter:       {Size: 15, Shape: "image", Image: "routerBig.svg"},
	domain.NodeRoleAccessSwitch: {Size: 11, Shape: "image", Image: "switchSmall.svg"},
	domain.NodeRoleCoreSwitch:   {Size: 14, Shape: "image", Image: "switchBig.svg"},
}

// StyleFor returns the style for a node. Unclassified polled devices get a
// medium router icon, unclassified neighbors a small one.
func StyleFor(node domain.Node, iconDir string) NodeStyle {
	style, ok := roleStyles[node.Role]
	if !ok {
		style = NodeStyle{Size: 12, Shape: "image", Image: "routerSmall.svg"}
		if node.Polled {
			style.Image = "routerMedium.svg"
		}
	}
	if iconDir != "" {
		style.Image = strings.TrimSuffix(iconDir, "/") + "/" + style.Image
	}
	return style
}
