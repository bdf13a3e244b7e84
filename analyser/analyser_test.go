package analyser

import (
	"bytes"
	"testing"

	"github.com/ONSdigital/dp-topojson-client/models"
	"github.com/ONSdigital/dp-topojson-client/testdata"
	"github.com/ONSdigital/dp-topojson-client/topojson"
	. "github.com/smartystreets/goconvey/convey"
)

func loadRequest(t *testing.T) *models.AnalyseRequest {
	reader := bytes.NewReader(testdata.LoadExampleAnalyseRequest(t))
	request, err := models.CreateAnalyseRequest(reader)
	So(err, ShouldBeNil)
	So(request.ValidateAnalyseRequest(), ShouldBeNil)
	return request
}

func TestAnalyseData(t *testing.T) {
	Convey("Successfully analyse a csv against a topology", t, func() {
		request := loadRequest(t)

		response, err := AnalyseData(request)
		So(err, ShouldBeNil)
		So(response, ShouldNotBeNil)
		So(len(response.Rows), ShouldEqual, 2)
		So(response.Rows[0].ID, ShouldEqual, "E01")
		So(response.Rows[0].Name, ShouldEqual, "Left Square")
		So(response.MinValue, ShouldEqual, 10.5)
		So(response.MaxValue, ShouldEqual, 20.25)
		So(len(response.Breaks), ShouldBeGreaterThan, 0)
		So(response.Classes, ShouldEqual, len(response.Breaks))
		So(response.UnmatchedRows, ShouldBeEmpty)
		So(response.UnmatchedFeatures, ShouldBeEmpty)
	})
}

func TestAnalyseDataReportsUnmatchedRows(t *testing.T) {
	Convey("When some rows match no feature, they are reported", t, func() {
		request := loadRequest(t)
		request.CSV = "id,value\nE01,10.5\nE99,3\n"

		response, err := AnalyseData(request)
		So(err, ShouldBeNil)
		So(response.UnmatchedRows, ShouldResemble, []string{"E99"})

		found := false
		for _, m := range response.Messages {
			if m.Level == "error" {
				found = true
				So(m.Text, ShouldContainSubstring, "E99")
			}
		}
		So(found, ShouldBeTrue)
	})
}

func TestAnalyseDataReportsUnmatchedFeatures(t *testing.T) {
	Convey("When some features have no data, they are reported in walk order", t, func() {
		request := loadRequest(t)
		request.CSV = "id,value\nE01,10.5\n"

		response, err := AnalyseData(request)
		So(err, ShouldBeNil)
		So(response.UnmatchedFeatures, ShouldResemble, []string{"E02"})
	})
}

func TestAnalyseDataRejectsFullyUnmatchedData(t *testing.T) {
	Convey("When no rows match the topology, an error is returned", t, func() {
		request := loadRequest(t)
		request.CSV = "id,value\nX1,1\nX2,2\n"

		_, err := AnalyseData(request)
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "Data does not match topology")
	})
}

func TestAnalyseDataFallsBackToGeometryID(t *testing.T) {
	Convey("When the id property is absent, the geometry id identifies features", t, func() {
		request := loadRequest(t)
		request.IDProperty = "no_such_property"
		request.CSV = "id,value\nleft,1\nright,2\n"

		response, err := AnalyseData(request)
		So(err, ShouldBeNil)
		So(len(response.Rows), ShouldEqual, 2)
	})
}

func TestAnalyseDataWalksAllObjectsWithoutKey(t *testing.T) {
	Convey("When no key is given, every object in the topology is a feature", t, func() {
		request := loadRequest(t)
		request.Key = ""
		request.Topojson.Objects["extra"] = &topojson.Geometry{
			Type:       "Polygon",
			Polygon:    [][]int{{0}},
			Properties: map[string]interface{}{"code": "E03"},
		}
		request.CSV = "id,value\nE01,1\nE02,2\nE03,3\n"

		response, err := AnalyseData(request)
		So(err, ShouldBeNil)
		So(len(response.Rows), ShouldEqual, 3)
	})
}

func TestAnalyseDataUnknownKey(t *testing.T) {
	Convey("When the key names no object, the error propagates", t, func() {
		request := loadRequest(t)
		request.Key = "nope"

		_, err := AnalyseData(request)
		So(err, ShouldNotBeNil)
		So(err, ShouldWrap, topojson.ErrKeyNotFound)
	})
}

func TestAnalyseDataClampsClassCount(t *testing.T) {
	Convey("When more classes than values are requested, the count is clamped", t, func() {
		request := loadRequest(t)
		request.Classes = 9

		response, err := AnalyseData(request)
		So(err, ShouldBeNil)
		So(response.Classes, ShouldBeLessThanOrEqualTo, 2)
	})
}

func TestAnalyseDataSkipsUnreadableRows(t *testing.T) {
	Convey("When a row has a non-numeric value, it is skipped with a message", t, func() {
		request := loadRequest(t)
		request.CSV = "id,value\nE01,ten\nE02,20.25\n"

		response, err := AnalyseData(request)
		So(err, ShouldBeNil)
		So(len(response.Rows), ShouldEqual, 1)

		found := false
		for _, m := range response.Messages {
			if m.Level == "warn" {
				found = true
			}
		}
		So(found, ShouldBeTrue)
	})
}

func TestAnalyseDataRejectsUnreadableCSV(t *testing.T) {
	Convey("When no csv row has a numeric value, an error is returned", t, func() {
		request := loadRequest(t)
		request.CSV = "id,value\nE01,ten\nE02,twenty\n"

		_, err := AnalyseData(request)
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "numeric")
	})
}
