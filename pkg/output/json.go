package output

import (
	"encoding/json"

	"github.com/mdnmdn/asimeow/pkg/logger"
)

func (f *formatter) marshalJSON(v interface{}) (string, error) {
	f.log.Debug("Formatting JSON output")

	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal JSON")
		return "", err
	}

	return string(bytes) + "\n", nil
}
