package data

import (
	"encoding/json"
	"os"
	"path"

	"github.com/m-lab/go/warnonerror"
	"github.com/pkg/errors"
)

// Save writes record to a JSON file under datadir and returns the file
// name. Files land in one directory per day, named by timestamp and run
// UUID.
func Save(record *Result, datadir string) (string, error) {
	timestamp := record.StartTime.UTC()
	dir := path.Join(datadir, "sigping", timestamp.Format("2006/01/02"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "could not create directory %s", dir)
	}
	name := path.Join(dir, "sigping-"+timestamp.Format("20060102T150405.000000000Z")+"."+record.UUID+".json")
	// Nanosecond timestamps make collisions unlikely. If that assumption
	// fails, O_EXCL will let us know.
	file, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", errors.Wrap(err, "could not create the results file")
	}
	defer warnonerror.Close(file, "Could not close "+name)
	if err := json.NewEncoder(file).Encode(record); err != nil {
		return "", errors.Wrapf(err, "could not encode the record to %s", name)
	}
	return name, nil
}
