package plot

import (
	"encoding/json"
	"time"
)

// Spec is the declarative chart handed to Plotly as newPlot(data, layout)
type Spec struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one Plotly series
type Trace struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
	Type  string `json:"type,omitempty"`
	Mode  string `json:"mode,omitempty"`
	Fill  string `json:"fill,omitempty"`

	X     []time.Time `json:"x"`
	Y     []float64   `json:"y,omitempty"`
	Open  []float64   `json:"open,omitempty"`
	High  []float64   `json:"high,omitempty"`
	Low   []float64   `json:"low,omitempty"`
	Close []float64   `json:"close,omitempty"`

	XAxis string `json:"xaxis"`
	YAxis string `json:"yaxis"`

	Marker *Marker `json:"marker,omitempty"`
	Line   *Line   `json:"line,omitempty"`
}

type Marker struct {
	Color string `json:"color"`
}

type Line struct {
	Color string   `json:"color,omitempty"`
	Width *float64 `json:"width,omitempty"`
}

type Font struct {
	Size  int    `json:"size"`
	Color string `json:"color"`
}

// Annotation is a positioned text label with an optional arrow
type Annotation struct {
	X         time.Time `json:"x"`
	Y         float64   `json:"y"`
	XRef      string    `json:"xref"`
	YRef      string    `json:"yref"`
	Text      string    `json:"text"`
	HoverText string    `json:"hovertext,omitempty"`

	ShowArrow  bool     `json:"showarrow"`
	ArrowColor string   `json:"arrowcolor,omitempty"`
	ArrowHead  int      `json:"arrowhead,omitempty"`
	AX         *float64 `json:"ax,omitempty"`
	AY         *float64 `json:"ay,omitempty"`
	VAlign     string   `json:"valign,omitempty"`
	BorderPad  int      `json:"borderpad,omitempty"`
	Font       Font     `json:"font"`
}

// RectShape is a rectangle drawn on an axis pair
type RectShape struct {
	Type      string    `json:"type"`
	XRef      string    `json:"xref"`
	YRef      string    `json:"yref"`
	X0        time.Time `json:"x0"`
	Y0        float64   `json:"y0"`
	X1        time.Time `json:"x1"`
	Y1        float64   `json:"y1"`
	Line      Line      `json:"line"`
	FillColor string    `json:"fillcolor"`
	Layer     string    `json:"layer,omitempty"`
}

// Domain is the vertical [start, end] fraction of the figure used by an axis
type Domain [2]float64

// Height returns end - start
func (d Domain) Height() float64 { return d[1] - d[0] }

// YAxis is a vertical axis definition
type YAxis struct {
	Title     string `json:"title,omitempty"`
	Domain    Domain `json:"domain"`
	AutoRange bool   `json:"autorange"`
	Mirror    bool   `json:"mirror"`
	ShowLine  bool   `json:"showline"`
	LineColor string `json:"linecolor,omitempty"`
	GridColor string `json:"gridcolor,omitempty"`
}

type RangeSlider struct {
	Visible bool `json:"visible"`
}

// XAxis is the shared time axis
type XAxis struct {
	AutoRange   bool        `json:"autorange"`
	RangeSlider RangeSlider `json:"rangeslider"`
	ShowLine    bool        `json:"showline"`
	Anchor      string      `json:"anchor"`
}

type Margin struct {
	Top int `json:"t"`
}

// Layout is the Plotly layout. YAxes is keyed by axis id ("y1", "y2", ...)
// and serialized as "yaxis1", "yaxis2", ... next to the other fields.
type Layout struct {
	Template    string           `json:"template"`
	DragMode    string           `json:"dragmode"`
	Margin      Margin           `json:"margin"`
	ShowLegend  bool             `json:"showlegend"`
	XAxis       XAxis            `json:"xaxis"`
	YAxes       map[string]YAxis `json:"-"`
	HoverMode   string           `json:"hovermode"`
	Annotations []Annotation     `json:"annotations"`
	Shapes      []RectShape      `json:"shapes"`
}

type layoutFields Layout

func (l Layout) MarshalJSON() ([]byte, error) {
	content, err := json.Marshal(layoutFields(l))
	if err != nil {
		return nil, err
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(content, &fields); err != nil {
		return nil, err
	}

	for id, axis := range l.YAxes {
		raw, err := json.Marshal(axis)
		if err != nil {
			return nil, err
		}
		fields[axisKey(id)] = raw
	}

	return json.Marshal(fields)
}

func (l *Layout) UnmarshalJSON(data []byte) error {
	var fields layoutFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fields.YAxes = make(map[string]YAxis)
	for key, value := range raw {
		id, ok := axisID(key)
		if !ok {
			continue
		}
		var axis YAxis
		if err := json.Unmarshal(value, &axis); err != nil {
			return err
		}
		fields.YAxes[id] = axis
	}

	*l = Layout(fields)
	return nil
}
