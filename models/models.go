package models

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/ONSdigital/go-ns/log"
	jsoniter "github.com/json-iterator/go"

	"github.com/ONSdigital/dp-topojson-client/topojson"
)

// A list of errors returned from package
var (
	ErrorReadingBody = errors.New("Failed to read message body")
	ErrorNoData      = errors.New("Bad request - Missing data in body")
)

// Named mesh filters accepted over the API. 'interior' keeps arcs shared by
// two geometries, 'exterior' those used by exactly one.
var (
	MeshFilterInterior = "interior"
	MeshFilterExterior = "exterior"
)

// DecodeRequest represents a structure for a topology decode job: feature
// reconstruction, merge, mesh, neighbors, bbox, spatial query and preview all
// share it. Key names the object to operate on; mesh treats an empty key as
// "the whole topology". Filter applies to mesh only. BBox is the query
// rectangle for spatial queries.
type DecodeRequest struct {
	Topojson *topojson.Topology `json:"topojson,omitempty"`
	Key      string             `json:"key,omitempty"`
	Filter   string             `json:"filter,omitempty"`
	BBox     []float64          `json:"bbox,omitempty"`
}

// QuantizeRequest represents a structure for a quantize job.
type QuantizeRequest struct {
	Topojson *topojson.Topology `json:"topojson,omitempty"`
	N        float64            `json:"n,omitempty"`
}

// DataRow holds one row of data joined against a topology feature. Name is
// filled in from the feature's name property when the request names one.
type DataRow struct {
	ID    string  `json:"id"`
	Name  string  `json:"name,omitempty"`
	Value float64 `json:"value"`
}

// AnalyseRequest asks for a csv of id/value rows to be joined against the
// features of a topology and classified into natural breaks. Key names the
// object holding the features, empty meaning every object in the topology.
// IDProperty names the feature property matched against the csv id column
// (the geometry id is the fallback); NameProperty optionally names a
// display-name property carried through to the matched rows. Classes is the
// requested class count, 0 meaning the default.
type AnalyseRequest struct {
	Topojson     *topojson.Topology `json:"topojson,omitempty"`
	Key          string             `json:"key,omitempty"`
	IDProperty   string             `json:"id_property,omitempty"`
	NameProperty string             `json:"name_property,omitempty"`
	CSV          string             `json:"csv,omitempty"`
	IDColumn     int                `json:"id_column"`
	ValueColumn  int                `json:"value_column"`
	HasHeaderRow bool               `json:"has_header_row,omitempty"`
	Classes      int                `json:"classes,omitempty"`
}

// AnalyseResponse reports the join both ways - rows with no feature and
// features with no data - plus the class boundaries of the matched values.
type AnalyseResponse struct {
	Rows              []*DataRow `json:"rows"`
	UnmatchedRows     []string   `json:"unmatched_rows,omitempty"`
	UnmatchedFeatures []string   `json:"unmatched_features,omitempty"`
	Messages          []*Message `json:"messages"`
	Breaks            []float64  `json:"breaks"`
	Classes           int        `json:"classes"`
	MinValue          float64    `json:"min_value"`
	MaxValue          float64    `json:"max_value"`
}

// Message represents a message with a level type
type Message struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// CreateDecodeRequest manages the creation of a DecodeRequest from a reader
func CreateDecodeRequest(reader io.Reader) (*DecodeRequest, error) {
	bytes, err := ioutil.ReadAll(reader)
	if err != nil {
		log.Error(err, log.Data{"request_body": string(bytes)})
		return nil, ErrorReadingBody
	}

	var request DecodeRequest
	err = jsoniter.Unmarshal(bytes, &request)
	if err != nil {
		log.Error(err, log.Data{"request_body": string(bytes)})
		return nil, err
	}

	// This should be the last check before returning DecodeRequest
	if len(bytes) == 2 {
		return &request, ErrorNoData
	}

	return &request, nil
}

// ValidateDecodeRequest checks the content of the request structure
func (r *DecodeRequest) ValidateDecodeRequest() error {
	var missingFields []string

	if r.Topojson == nil {
		missingFields = append(missingFields, "topojson")
	}

	if missingFields != nil {
		return fmt.Errorf("Missing mandatory field(s): %v", missingFields)
	}

	if len(r.Filter) > 0 && r.Filter != MeshFilterInterior && r.Filter != MeshFilterExterior {
		return fmt.Errorf("Unknown filter: %q", r.Filter)
	}

	return nil
}

// CreateQuantizeRequest manages the creation of a QuantizeRequest from a reader
func CreateQuantizeRequest(reader io.Reader) (*QuantizeRequest, error) {
	bytes, err := ioutil.ReadAll(reader)
	if err != nil {
		log.Error(err, log.Data{"request_body": string(bytes)})
		return nil, ErrorReadingBody
	}

	var request QuantizeRequest
	err = jsoniter.Unmarshal(bytes, &request)
	if err != nil {
		log.Error(err, log.Data{"request_body": string(bytes)})
		return nil, err
	}

	if len(bytes) == 2 {
		return &request, ErrorNoData
	}

	return &request, nil
}

// ValidateQuantizeRequest checks the content of the request structure
func (r *QuantizeRequest) ValidateQuantizeRequest() error {
	var missingFields []string

	if r.Topojson == nil {
		missingFields = append(missingFields, "topojson")
	}
	if r.N == 0 {
		missingFields = append(missingFields, "n")
	}

	if missingFields != nil {
		return fmt.Errorf("Missing mandatory field(s): %v", missingFields)
	}

	return nil
}

// CreateAnalyseRequest manages the creation of an AnalyseRequest from a reader
func CreateAnalyseRequest(reader io.Reader) (*AnalyseRequest, error) {
	bytes, err := ioutil.ReadAll(reader)
	if err != nil {
		log.Error(err, log.Data{"request_body": string(bytes)})
		return nil, ErrorReadingBody
	}

	var request AnalyseRequest
	err = jsoniter.Unmarshal(bytes, &request)
	if err != nil {
		log.Error(err, log.Data{"request_body": string(bytes)})
		return nil, err
	}

	if len(bytes) == 2 {
		return &request, ErrorNoData
	}

	return &request, nil
}

// ValidateAnalyseRequest checks the content of the request structure
func (r *AnalyseRequest) ValidateAnalyseRequest() error {
	var missingFields []string

	if r.Topojson == nil {
		missingFields = append(missingFields, "topojson")
	}
	if len(r.CSV) == 0 {
		missingFields = append(missingFields, "csv")
	}

	if missingFields != nil {
		return fmt.Errorf("Missing mandatory field(s): %v", missingFields)
	}

	if r.IDColumn < 0 || r.ValueColumn < 0 {
		return fmt.Errorf("id_column and value_column must be >=0: id_column=%v, value_column=%v", r.IDColumn, r.ValueColumn)
	}
	if r.IDColumn == r.ValueColumn {
		return fmt.Errorf("id_column and value_column cannot refer to the same column: id_column=%v, value_column=%v", r.IDColumn, r.ValueColumn)
	}
	if r.Classes < 0 {
		return fmt.Errorf("classes must be >=0: classes=%v", r.Classes)
	}
	return nil
}
