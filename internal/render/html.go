package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"lldpgraph/internal/domain"
)

var pageTemplate = template.Must(template.New("diagram").Parse(`<html>
<head>
<meta charset="utf-8">
<link rel="stylesheet" href="{{.Stylesheet}}" type="text/css" />
<script type="text/javascript" src="{{.Script}}"></script>
<style type="text/css">
#mynetwork {
    width: {{.Width}};
    height: {{.Height}};
    background-color: #ffffff;
    border: 1px solid lightgray;
    position: relative;
    float: left;
}
</style>
</head>
<body>
<div id="mynetwork"></div>
<script type="text/javascript">
var nodes = new vis.DataSet({{.Nodes}});
var edges = new vis.DataSet({{.Edges}});
var container = document.getElementById('mynetwork');
var data = {nodes: nodes, edges: edges};
var options = {{.Options}};
var network = new vis.Network(container, data, options);
</script>
</body>
</html>
`))

type pageData struct {
	Stylesheet string
	Script     string
	Width      template.CSS
	Height     template.CSS
	Nodes      template.JS
	Edges      template.JS
	Options    template.JS
}

type visOptions struct {
	Layout struct {
		RandomSeed int `json:"randomSeed"`
	} `json:"layout"`
	Interaction struct {
		DragNodes bool `json:"dragNodes"`
	} `json:"interaction"`
	Physics struct {
		Enabled   bool   `json:"enabled"`
		Solver    string `json:"solver"`
		Repulsion struct {
			NodeDistance   int     `json:"nodeDistance"`
			SpringLength   int     `json:"springLength"`
			CentralGravity float64 `json:"centralGravity"`
			SpringConstant float64 `json:"springConstant"`
			Damping        float64 `json:"damping"`
		} `json:"repulsion"`
	} `json:"physics"`
}

func buildVisOptions(opts Options) visOptions {
	var vo visOptions
	vo.Layout.RandomSeed = opts.Seed
	vo.Interaction.DragNodes = true
	vo.Physics.Enabled = opts.Physics
	vo.Physics.Solver = "repulsion"
	vo.Physics.Repulsion.NodeDistance = opts.NodeDistance
	vo.Physics.Repulsion.SpringLength = opts.SpringLength
	vo.Physics.Repulsion.CentralGravity = 0.2
	vo.Physics.Repulsion.SpringConstant = 0.05
	vo.Physics.Repulsion.Damping = 0.09
	return vo
}

// WriteHTML emits the vis-network page for graph. Asset links always point
// at the CDN; PostProcess swaps them for local copies.
func WriteHTML(w io.Writer, graph *domain.Graph, opts Options) error {
	nodes, err := json.Marshal(graph.Nodes)
	if err != nil {
		return fmt.Errorf("failed to encode nodes: %w", err)
	}
	edges, err := json.Marshal(graph.Edges)
	if err != nil {
		return fmt.Errorf("failed to encode edges: %w", err)
	}
	options, err := json.Marshal(buildVisOptions(opts))
	if err != nil {
		return fmt.Errorf("failed to encode options: %w", err)
	}

	data := pageData{
		Stylesheet: CDNStylesheet,
		Script:     CDNScript,
		Width:      template.CSS(opts.Width),
		Height:     template.CSS(opts.Height),
		Nodes:      template.JS(nodes),
		Edges:      template.JS(edges),
		Options:    template.JS(options),
	}

	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render diagram: %w", err)
	}
	return nil
}

// PostProcess injects the title after the body tag and, when localAssets is
// set, points the vis-network links at the local files/ directory.
func PostProcess(page, title string, localAssets bool) string {
	page = strings.Replace(page, "<body>", "<body><center>"+html.EscapeString(title)+"</center>", 1)
	if localAssets {
		page = strings.ReplaceAll(page, CDNStylesheet, LocalStylesheet)
		page = strings.ReplaceAll(page, CDNScript, LocalScript)
	}
	return page
}

// Render produces the final, post-processed diagram page
func Render(graph *domain.Graph, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, graph, opts); err != nil {
		return nil, err
	}
	return []byte(PostProcess(buf.String(), opts.Title, opts.LocalAssets)), nil
}

// WriteFile renders the diagram to path, creating parent directories
func WriteFile(path string, graph *domain.Graph, opts Options) error {
	page, err := Render(graph, opts)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, page, 0644); err != nil {
		return fmt.Errorf("write diagram: %w", err)
	}
	return nil
}
