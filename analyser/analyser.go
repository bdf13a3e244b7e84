// Package analyser joins tabular data against the features of a topology and
// classifies the matched values into natural breaks, so a caller can check
// that a dataset and a topology describe the same geography before rendering
// one on top of the other.
package analyser

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/ONSdigital/go-ns/log"
	"github.com/ThinkingLogic/jenks"
	geojson "github.com/paulmach/go.geojson"

	"github.com/ONSdigital/dp-topojson-client/models"
	"github.com/ONSdigital/dp-topojson-client/topojson"
)

// Class count bounds for the natural-breaks classification.
const (
	defaultClasses = 5
	maxClasses     = 11
)

// AnalyseData joins the request's csv against the features of its topology
// and returns the matched rows, the ids that failed to match in either
// direction, and the natural-break class boundaries of the matched values.
func AnalyseData(request *models.AnalyseRequest) (*models.AnalyseResponse, error) {
	features, err := collectFeatures(request)
	if err != nil {
		return nil, err
	}
	if len(features.order) == 0 {
		return nil, fmt.Errorf("Topology contains no identifiable features (id property '%s')", request.IDProperty)
	}

	rows, messages, err := parseRows(request.CSV, request.IDColumn, request.ValueColumn, request.HasHeaderRow)
	if err != nil {
		return nil, err
	}

	matched := []*models.DataRow{}
	unmatchedRows := []string{}
	for _, row := range rows {
		f, ok := features.byID[row.ID]
		if !ok {
			unmatchedRows = append(unmatchedRows, row.ID)
			continue
		}
		f.matched = true
		row.Name = f.name
		matched = append(matched, row)
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("Data does not match topology - no row id matches a feature (id property '%s')", request.IDProperty)
	}

	unmatchedFeatures := []string{}
	for _, id := range features.order {
		if !features.byID[id].matched {
			unmatchedFeatures = append(unmatchedFeatures, id)
		}
	}

	if len(unmatchedRows) > 0 {
		messages = append(messages, &models.Message{Level: "error", Text: fmt.Sprintf("%d rows match no feature in the topology. Row IDs: [%v]", len(unmatchedRows), strings.Join(unmatchedRows, ", "))})
	}
	if len(unmatchedFeatures) > 0 {
		messages = append(messages, &models.Message{Level: "warn", Text: fmt.Sprintf("%d features have no data. Feature IDs: [%v]", len(unmatchedFeatures), strings.Join(unmatchedFeatures, ", "))})
	}
	messages = append(messages, &models.Message{Level: "info", Text: fmt.Sprintf("Matched %d of %d rows against %d features", len(matched), len(rows), len(features.order))})

	values := make([]float64, len(matched))
	for i, row := range matched {
		values[i] = row.Value
	}
	sort.Float64s(values)

	classes := classCount(request.Classes, len(values))
	breaks := jenks.Round(jenks.NaturalBreaks(values, classes), values)

	return &models.AnalyseResponse{
		Rows:              matched,
		UnmatchedRows:     unmatchedRows,
		UnmatchedFeatures: unmatchedFeatures,
		Messages:          messages,
		Breaks:            breaks,
		Classes:           len(breaks),
		MinValue:          values[0],
		MaxValue:          values[len(values)-1],
	}, nil
}

// classCount clamps the requested class count to something jenks can honour.
func classCount(requested, valueCount int) int {
	classes := requested
	if classes <= 0 {
		classes = defaultClasses
	}
	if classes > maxClasses {
		classes = maxClasses
	}
	if classes > valueCount {
		classes = valueCount
	}
	return classes
}

// feature is one identifiable feature of the topology.
type feature struct {
	name    string
	matched bool
}

// featureSet holds the features keyed by id, remembering walk order so
// unmatched features are reported deterministically.
type featureSet struct {
	order []string
	byID  map[string]*feature
}

func (s *featureSet) add(id, name string) {
	if len(id) == 0 {
		return
	}
	if _, ok := s.byID[id]; !ok {
		s.order = append(s.order, id)
		s.byID[id] = &feature{name: name}
	}
}

// collectFeatures walks the named object (or every object when no key is
// given), identifying each leaf geometry by the id property, falling back to
// the geometry id.
func collectFeatures(request *models.AnalyseRequest) (*featureSet, error) {
	set := &featureSet{byID: make(map[string]*feature)}

	var walk func(o *topojson.Geometry)
	walk = func(o *topojson.Geometry) {
		if o.Type == geojson.GeometryCollection {
			for _, member := range o.Geometries {
				walk(member)
			}
			return
		}
		set.add(identify(o, request.IDProperty), property(o, request.NameProperty))
	}

	if len(request.Key) > 0 {
		o, err := request.Topojson.Object(request.Key)
		if err != nil {
			return nil, err
		}
		walk(o)
		return set, nil
	}

	keys := make([]string, 0, len(request.Topojson.Objects))
	for key := range request.Topojson.Objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		walk(request.Topojson.Objects[key])
	}
	return set, nil
}

// identify returns the feature's id: the named property when present, the
// geometry id otherwise.
func identify(o *topojson.Geometry, idProperty string) string {
	if id := property(o, idProperty); len(id) > 0 {
		return id
	}
	id, _ := o.ID.(string)
	return id
}

func property(o *topojson.Geometry, name string) string {
	if len(name) == 0 {
		return ""
	}
	value, _ := o.Properties[name].(string)
	return value
}

// parseRows reads id/value pairs out of the csv, reporting rows it had to
// skip as messages. It fails when the csv cannot be read or when nothing
// usable remains.
func parseRows(source string, idColumn, valueColumn int, hasHeader bool) ([]*models.DataRow, []*models.Message, error) {
	reader := csv.NewReader(strings.NewReader(source))
	reader.FieldsPerRecord = -1 // allow variable count of fields per record

	if hasHeader {
		reader.Read()
	}

	width := idColumn
	if valueColumn > width {
		width = valueColumn
	}
	width++

	rows := []*models.DataRow{}
	short := []int{}
	badValues := []string{}

	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Error(err, log.Data{"line": line})
			return nil, nil, fmt.Errorf("Error reading CSV: %v", err.Error())
		}
		if len(record) < width {
			short = append(short, line)
			continue
		}
		id := strings.TrimSpace(record[idColumn])
		value, err := strconv.ParseFloat(strings.TrimSpace(record[valueColumn]), 64)
		if err != nil {
			badValues = append(badValues, id)
			continue
		}
		rows = append(rows, &models.DataRow{ID: id, Value: value})
	}

	if len(rows) == 0 {
		if len(short) == line {
			return nil, nil, fmt.Errorf("Every CSV row has fewer than %d columns - could not read data", width)
		}
		return nil, nil, fmt.Errorf("No CSV row has a numeric value - could not read data")
	}

	messages := []*models.Message{}
	if len(short) > 0 {
		messages = append(messages, &models.Message{Level: "warn", Text: fmt.Sprintf("%d rows have too few columns and were skipped. Line numbers: %v", len(short), strings.Trim(fmt.Sprint(short), "[]"))})
	}
	if len(badValues) > 0 {
		messages = append(messages, &models.Message{Level: "warn", Text: fmt.Sprintf("%d rows have missing or non-numeric values and were skipped. Row IDs: [%v]", len(badValues), strings.Join(badValues, ", "))})
	}

	return rows, messages, nil
}
