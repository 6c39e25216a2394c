package local

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Create opens basepath/name for writing, creating basepath when needed.
func Create(basepath string, name string) (*os.File, error) {
	if err := os.MkdirAll(basepath, 0755); err != nil {
		return nil, err
	}

	path := filepath.Join(basepath, name)
	log.Debug().Str("path", path).Msg("creating output file")
	return os.Create(path)
}

func Write(data []byte, basepath string, name string) (int, error) {
	file, err := Create(basepath, name)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("failed creating output file")
		return 0, err
	}

	bytes, err := file.Write(data)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return bytes, err
}
