package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/dpup/corridor/internal/lib/geo"
)

// HTMLRenderer writes a standalone Leaflet page. Kept pairs are drawn green,
// filtered pairs red, with a legend carrying the kept/filtered split.
type HTMLRenderer struct {
	scene    *template.Template
	overview *template.Template
}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		scene:    template.Must(template.New("scene").Parse(pageHead + sceneBody)),
		overview: template.Must(template.New("overview").Parse(pageHead + overviewBody)),
	}
}

func (*HTMLRenderer) Format() Format      { return FormatHTML }
func (*HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

type latLng [2]float64

type htmlPair struct {
	From latLng `json:"from"`
	To   latLng `json:"to"`
}

type sceneData struct {
	Title           string
	Angle           float64
	Kept            int
	Rejected        int
	KeptPercent     float64
	RejectedPercent float64
	Center          latLng
	Route           []latLng
	Box             []latLng
	KeptPairs       []htmlPair
	RejectedPairs   []htmlPair
}

func (r *HTMLRenderer) Render(w io.Writer, scene Scene) error {
	data := sceneData{
		Title:           scene.Title,
		Angle:           scene.Corridor.Angle,
		Kept:            len(scene.Kept),
		Rejected:        len(scene.Rejected),
		KeptPercent:     scene.KeptPercent(),
		RejectedPercent: scene.RejectedPercent(),
		Center:          toLatLng(geo.Centroid(scene.Route)),
		Route:           toLatLngs(scene.Route),
		Box:             toLatLngs(scene.Corridor.Corners[:]),
		KeptPairs:       toHTMLPairs(scene.Kept),
		RejectedPairs:   toHTMLPairs(scene.Rejected),
	}
	if err := r.scene.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render map: %w", err)
	}
	return nil
}

type overviewLayer struct {
	Name   string   `json:"name"`
	Points []latLng `json:"points"`
}

// RenderOverview draws several named paths on one map with start and end markers
func (r *HTMLRenderer) RenderOverview(w io.Writer, title string, layers []Layer) error {
	var all []geo.Point
	out := make([]overviewLayer, 0, len(layers))
	for _, l := range layers {
		all = append(all, l.Points...)
		out = append(out, overviewLayer{Name: l.Name, Points: toLatLngs(l.Points)})
	}
	if len(all) == 0 {
		return fmt.Errorf("overview has no coordinates")
	}

	data := struct {
		Title  string
		Center latLng
		Layers []overviewLayer
	}{title, toLatLng(geo.Centroid(all)), out}

	if err := r.overview.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render overview: %w", err)
	}
	return nil
}

func toLatLng(p geo.Point) latLng {
	return latLng{p.Latitude, p.Longitude}
}

func toLatLngs(points []geo.Point) []latLng {
	out := make([]latLng, len(points))
	for i, p := range points {
		out[i] = toLatLng(p)
	}
	return out
}

func toHTMLPairs(pairs []geo.Pair) []htmlPair {
	out := make([]htmlPair, len(pairs))
	for i, p := range pairs {
		out[i] = htmlPair{From: toLatLng(p.Origin), To: toLatLng(p.Destination)}
	}
	return out
}

const pageHead = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
    <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
    <style>
        html, body, #map { height: 100%; margin: 0; }
        .legend { position: fixed; bottom: 50px; right: 50px; z-index: 9999;
                  border: 2px solid grey; background: white; padding: 10px; font-size: 14px; }
        .legend p { margin: 5px; }
    </style>
</head>
`

const sceneBody = `<body>
<div id="map"></div>
<div class="legend">
    <p><b>{{.Title}}</b></p>
    <p><span style="color: darkblue;">&#9645;</span> Corridor ({{printf "%.1f" .Angle}}° from east)</p>
    <p><span style="color: blue;">&#9473;&#9473;</span> Route</p>
    <hr>
    <p style="font-size: 12px;"><b>Pairs:</b></p>
    <p><span style="color: green;">&#9679;</span> Kept: {{.Kept}} ({{printf "%.1f" .KeptPercent}}%)</p>
    <p><span style="color: red;">&#9679;</span> Filtered: {{.Rejected}} ({{printf "%.1f" .RejectedPercent}}%)</p>
</div>
<script>
    const map = L.map('map').setView({{.Center}}, 10);
    L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', {
        attribution: '&copy; OpenStreetMap contributors'
    }).addTo(map);

    L.polygon({{.Box}}, {color: 'darkblue', weight: 3, fillOpacity: 0.05})
        .bindTooltip('Corridor ({{printf "%.1f" .Angle}}° from east)').addTo(map);
    L.polyline({{.Route}}, {color: 'blue', weight: 4, opacity: 0.8}).bindPopup('Route').addTo(map);

    function drawPairs(pairs, kept) {
        const color = kept ? 'green' : 'red';
        const opacity = kept ? 0.7 : 0.3;
        for (const p of pairs) {
            L.polyline([p.from, p.to], {color: color, weight: kept ? 2 : 1, opacity: opacity})
                .bindPopup(kept ? 'KEPT' : 'FILTERED').addTo(map);
            L.circleMarker(p.from, {radius: kept ? 4 : 3, color: color, fillOpacity: opacity, weight: 1}).addTo(map);
            L.circleMarker(p.to, {radius: kept ? 5 : 3, color: color, fillOpacity: opacity, weight: kept ? 2 : 1}).addTo(map);
        }
    }
    drawPairs({{.RejectedPairs}}, false);
    drawPairs({{.KeptPairs}}, true);
</script>
</body>
</html>
`

const overviewBody = `<body>
<div id="map"></div>
<script>
    const map = L.map('map').setView({{.Center}}, 11);
    L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', {
        attribution: '&copy; OpenStreetMap contributors'
    }).addTo(map);

    for (const layer of {{.Layers}}) {
        if (layer.points.length === 0) continue;
        L.polyline(layer.points, {weight: 3, opacity: 0.8}).bindTooltip(layer.name).addTo(map);
        L.circleMarker(layer.points[0], {color: 'green', radius: 6}).bindPopup(layer.name + ' start').addTo(map);
        L.circleMarker(layer.points[layer.points.length - 1], {color: 'red', radius: 6}).bindPopup(layer.name + ' end').addTo(map);
    }
</script>
</body>
</html>
`
