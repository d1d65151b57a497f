package output

import (
	"gopkg.in/yaml.v3"

	"github.com/mdnmdn/asimeow/pkg/logger"
)

func (f *formatter) marshalYAML(v interface{}) (string, error) {
	f.log.Debug("Formatting YAML output")

	bytes, err := yaml.Marshal(v)
	if err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal YAML")
		return "", err
	}

	return string(bytes), nil
}
