package testdata

import (
	"io/ioutil"
	"path/filepath"
	"testing"
)

// LoadExampleDecodeRequest reads the example request from exampleDecodeRequest.json
func LoadExampleDecodeRequest(t *testing.T) []byte {
	return loadTestdata(t, "exampleDecodeRequest.json")
}

// LoadExampleQuantizeRequest reads the example request from exampleQuantizeRequest.json
func LoadExampleQuantizeRequest(t *testing.T) []byte {
	return loadTestdata(t, "exampleQuantizeRequest.json")
}

// LoadExampleAnalyseRequest reads the example request from exampleAnalyseRequest.json
func LoadExampleAnalyseRequest(t *testing.T) []byte {
	return loadTestdata(t, "exampleAnalyseRequest.json")
}

func loadTestdata(t *testing.T, name string) []byte {
	path := filepath.Join("../testdata", name) // relative path
	bytes, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return bytes
}
