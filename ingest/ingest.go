// Package ingest turns recorded pointer and controller traces into timed
// intents that can be replayed against a scene.
package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/TFMV/glowgraph/interact"
	"github.com/TFMV/glowgraph/models"
	"gopkg.in/yaml.v3"
)

// ErrMissingPointer is returned for a grab or move event without spatial input
var ErrMissingPointer = errors.New("event has no pointer")

// DataProcessor defines the interface that all trace processors must implement
type DataProcessor interface {
	// ProcessData takes raw data bytes and returns the recorded trace
	ProcessData(data []byte) (*Trace, error)

	// GetName returns the name of the processor
	GetName() string
}

// Event is one recorded intent and its offset from the start of the trace
type Event struct {
	At     time.Duration
	Intent interact.Intent
}

// Trace is a time-ordered input recording
type Trace struct {
	Name   string
	Format string
	Events []Event
}

// Duration returns the offset of the last event
func (t *Trace) Duration() time.Duration {
	if len(t.Events) == 0 {
		return 0
	}
	return t.Events[len(t.Events)-1].At
}

// Sources returns the distinct input sources in order of first appearance
func (t *Trace) Sources() []string {
	seen := make(map[string]bool)
	var sources []string
	for _, e := range t.Events {
		if !seen[e.Intent.Source] {
			seen[e.Intent.Source] = true
			sources = append(sources, e.Intent.Source)
		}
	}
	return sources
}

// Enqueuer accepts intents for the next frame
type Enqueuer interface {
	Enqueue(in interact.Intent)
}

// Replay enqueues every event with from <= At < to and returns how many were sent
func (t *Trace) Replay(dst Enqueuer, from, to time.Duration) int {
	i := sort.Search(len(t.Events), func(i int) bool { return t.Events[i].At >= from })
	n := 0
	for ; i < len(t.Events) && t.Events[i].At < to; i++ {
		dst.Enqueue(t.Events[i].Intent)
		n++
	}
	return n
}

// record is the flat shape shared by the structured formats
type record struct {
	T        float64             `json:"t" yaml:"t"`
	Kind     string              `json:"kind" yaml:"kind"`
	Source   string              `json:"source" yaml:"source"`
	Screen   *models.ScreenPoint `json:"screen,omitempty" yaml:"screen,omitempty"`
	Origin   *models.Vec         `json:"origin,omitempty" yaml:"origin,omitempty"`
	Dir      *models.Vec         `json:"dir,omitempty" yaml:"dir,omitempty"`
	Position *models.Vec         `json:"position,omitempty" yaml:"position,omitempty"`
}

// event validates the record and converts it into a timed intent
func (r record) event() (Event, error) {
	kind, err := interact.ParseKind(r.Kind)
	if err != nil {
		return Event{}, err
	}
	if r.T < 0 {
		return Event{}, fmt.Errorf("negative event time %g", r.T)
	}
	source := r.Source
	if source == "" {
		source = "pointer"
	}

	var p interact.Pointer
	if r.Origin != nil && r.Dir != nil {
		ray := models.NewRay(*r.Origin, *r.Dir)
		p.Ray = &ray
	}
	p.Screen = r.Screen
	p.Position = r.Position
	if (kind == interact.GrabStart || kind == interact.GrabMove) && p.Ray == nil && p.Screen == nil && p.Position == nil {
		return Event{}, fmt.Errorf("%s from %s: %w", kind, source, ErrMissingPointer)
	}

	return Event{
		At:     time.Duration(r.T * float64(time.Second)),
		Intent: interact.Intent{Kind: kind, Source: source, Pointer: p},
	}, nil
}

// newTrace converts records into a trace sorted by time; ties keep file order
func newTrace(name, format string, records []record) (*Trace, error) {
	trace := &Trace{Name: name, Format: format, Events: make([]Event, 0, len(records))}
	for i, r := range records {
		e, err := r.event()
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i+1, err)
		}
		trace.Events = append(trace.Events, e)
	}
	sort.SliceStable(trace.Events, func(i, j int) bool { return trace.Events[i].At < trace.Events[j].At })
	return trace, nil
}

// traceFile is the document shape of JSON and YAML traces
type traceFile struct {
	Name   string   `json:"name" yaml:"name"`
	Events []record `json:"events" yaml:"events"`
}

// JSONProcessor handles JSON traces
type JSONProcessor struct{}

// NewJSONProcessor creates a new JSON processor
func NewJSONProcessor() *JSONProcessor {
	return &JSONProcessor{}
}

// GetName returns the name of the processor
func (p *JSONProcessor) GetName() string {
	return "JSON Processor"
}

// ProcessData processes a JSON trace: {"name": ..., "events": [{"t", "kind", "source", ...}]}
func (p *JSONProcessor) ProcessData(data []byte) (*Trace, error) {
	var doc traceFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}
	if doc.Name == "" {
		doc.Name = "JSON Trace"
	}
	return newTrace(doc.Name, "json", doc.Events)
}

// YAMLProcessor handles YAML traces with the same layout as JSON
type YAMLProcessor struct{}

// NewYAMLProcessor creates a new YAML processor
func NewYAMLProcessor() *YAMLProcessor {
	return &YAMLProcessor{}
}

// GetName returns the name of the processor
func (p *YAMLProcessor) GetName() string {
	return "YAML Processor"
}

// ProcessData processes a YAML trace
func (p *YAMLProcessor) ProcessData(data []byte) (*Trace, error) {
	var doc traceFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}
	if doc.Name == "" {
		doc.Name = "YAML Trace"
	}
	return newTrace(doc.Name, "yaml", doc.Events)
}

// CSVProcessor handles CSV traces with one event per row
type CSVProcessor struct{}

// NewCSVProcessor creates a new CSV processor
func NewCSVProcessor() *CSVProcessor {
	return &CSVProcessor{}
}

// GetName returns the name of the processor
func (p *CSVProcessor) GetName() string {
	return "CSV Processor"
}

// csvColumns maps header aliases onto record fields
var csvColumns = map[string]string{
	"t": "t", "time": "t", "timestamp": "t",
	"kind": "kind", "event": "kind", "type": "kind",
	"source": "source", "src": "source", "hand": "source", "input": "source",
	"x": "x", "screen_x": "x",
	"y": "y", "screen_y": "y",
	"ox": "ox", "oy": "oy", "oz": "oz",
	"dx": "dx", "dy": "dy", "dz": "dz",
	"px": "px", "py": "py", "pz": "pz",
}

// ProcessData processes CSV data. Empty cells leave the matching pointer unset.
func (p *CSVProcessor) ProcessData(data []byte) (*Trace, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}
	cols := make(map[string]int)
	for i, col := range header {
		if field, ok := csvColumns[strings.ToLower(strings.TrimSpace(col))]; ok {
			cols[field] = i
		}
	}
	if _, ok := cols["t"]; !ok {
		return nil, fmt.Errorf("CSV must contain time and kind columns")
	}
	if _, ok := cols["kind"]; !ok {
		return nil, fmt.Errorf("CSV must contain time and kind columns")
	}

	var records []record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row: %w", err)
		}
		r, err := csvRecord(row, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, r)
	}
	return newTrace("CSV Trace", "csv", records)
}

// csvRecord reads one row
func csvRecord(row []string, cols map[string]int) (record, error) {
	cell := func(field string) string {
		i, ok := cols[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	// vec parses the named cells; it returns nil when they are all empty
	vec := func(fields ...string) ([]float64, error) {
		vals := make([]float64, len(fields))
		empty := true
		for i, f := range fields {
			s := cell(f)
			if s == "" {
				continue
			}
			empty = false
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", f, err)
			}
			vals[i] = v
		}
		if empty {
			return nil, nil
		}
		return vals, nil
	}

	t, err := strconv.ParseFloat(cell("t"), 64)
	if err != nil {
		return record{}, fmt.Errorf("invalid time: %w", err)
	}
	r := record{T: t, Kind: cell("kind"), Source: cell("source")}

	if v, err := vec("x", "y"); err != nil {
		return record{}, err
	} else if v != nil {
		r.Screen = &models.ScreenPoint{X: v[0], Y: v[1]}
	}
	origin, err := vec("ox", "oy", "oz")
	if err != nil {
		return record{}, err
	}
	dir, err := vec("dx", "dy", "dz")
	if err != nil {
		return record{}, err
	}
	if origin != nil && dir != nil {
		r.Origin = &models.Vec{X: origin[0], Y: origin[1], Z: origin[2]}
		r.Dir = &models.Vec{X: dir[0], Y: dir[1], Z: dir[2]}
	}
	if v, err := vec("px", "py", "pz"); err != nil {
		return record{}, err
	} else if v != nil {
		r.Position = &models.Vec{X: v[0], Y: v[1], Z: v[2]}
	}
	return r, nil
}

// LogProcessor handles plain-text traces, one event per line:
//
//	<seconds> <source> <kind> [screen X Y | ray OX OY OZ DX DY DZ | grip X Y Z]
//
// Blank lines, comments starting with # and lines that do not parse are skipped.
type LogProcessor struct{}

// NewLogProcessor creates a new log processor
func NewLogProcessor() *LogProcessor {
	return &LogProcessor{}
}

// GetName returns the name of the processor
func (p *LogProcessor) GetName() string {
	return "Log Processor"
}

// ProcessData processes log data
func (p *LogProcessor) ProcessData(data []byte) (*Trace, error) {
	var records []record
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if r, ok := logRecord(strings.Fields(line)); ok {
			records = append(records, r)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading log: %w", err)
	}
	return newTrace("Log Trace", "log", records)
}

// logRecord parses the fields of one line
func logRecord(fields []string) (record, bool) {
	if len(fields) < 3 {
		return record{}, false
	}
	t, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || t < 0 {
		return record{}, false
	}
	kind, err := interact.ParseKind(fields[2])
	if err != nil {
		return record{}, false
	}
	r := record{T: t, Source: fields[1], Kind: fields[2]}

	rest := fields[3:]
	if len(rest) == 0 {
		return r, kind == interact.GrabEnd || kind == interact.SourceLost
	}
	nums := make([]float64, 0, len(rest)-1)
	for _, f := range rest[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return record{}, false
		}
		nums = append(nums, v)
	}

	switch {
	case rest[0] == "screen" && len(nums) == 2:
		r.Screen = &models.ScreenPoint{X: nums[0], Y: nums[1]}
	case rest[0] == "ray" && len(nums) == 6:
		r.Origin = &models.Vec{X: nums[0], Y: nums[1], Z: nums[2]}
		r.Dir = &models.Vec{X: nums[3], Y: nums[4], Z: nums[5]}
	case (rest[0] == "grip" || rest[0] == "position") && len(nums) == 3:
		r.Position = &models.Vec{X: nums[0], Y: nums[1], Z: nums[2]}
	default:
		return record{}, false
	}
	return r, true
}

// GetProcessor returns a processor for the given format
func GetProcessor(format string) (DataProcessor, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "json":
		return NewJSONProcessor(), nil
	case "yaml", "yml":
		return NewYAMLProcessor(), nil
	case "csv":
		return NewCSVProcessor(), nil
	case "log", "txt":
		return NewLogProcessor(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
