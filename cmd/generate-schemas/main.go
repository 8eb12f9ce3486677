package main

import (
	"flag"
	"io/ioutil"

	"github.com/m-lab/go/cloud/bqx"
	"github.com/m-lab/go/rtx"
	"github.com/m-lab/sigping/data"

	"cloud.google.com/go/bigquery"
)

var (
	schema string
)

func init() {
	flag.StringVar(&schema, "schema", "/var/spool/datatypes/sigping.json", "filename to write sigping schema")
}

func main() {
	flag.Parse()
	// Generate and save the sigping schema for autoloading.
	row := data.Result{}
	sch, err := bigquery.InferSchema(row)
	rtx.Must(err, "failed to generate sigping schema")
	sch = bqx.RemoveRequired(sch)
	b, err := sch.ToJSONFields()
	rtx.Must(err, "failed to marshal schema")
	ioutil.WriteFile(schema, b, 0o644)
}
