package export

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stem-session/src/application/export/sink"
	"stem-session/src/application/stems/store"
	"stem-session/src/lib/cerr"

	"github.com/apex/log"
)

// IOError wraps a sink write failure for one stem file.
var IOError = errors.New("Failed to write the stem file")

type Result struct {
	StemName string
	Path     string
	Err      error
}

// Exporter writes selected stems out of the store as one WAV file per
// stem. A batch never aborts on a bad entry: each name gets its own
// result and files already written stay in place.
type Exporter struct {
	stemStore *store.Store
	fileStore sink.FileStore
}

func NewExporter(stemStore *store.Store, fileStore sink.FileStore) Exporter {
	return Exporter{
		stemStore: stemStore,
		fileStore: fileStore,
	}
}

func (e Exporter) Export(ctx context.Context, names []string, destDir string) []Result {
	log.WithFields(log.Fields{
		"names":   names,
		"destDir": destDir,
	}).Info("Exporting stems")

	results := make([]Result, len(names))
	resultChannels := make([]chan error, len(names))

	for i, name := range names {
		destPath := destFilePath(destDir, name)
		results[i] = Result{
			StemName: name,
			Path:     destPath,
		}

		resultChannels[i] = make(chan error)
		go e.exportStem(ctx, resultChannels[i], name, destPath)
	}

	for i, resultChannel := range resultChannels {
		results[i].Err = <-resultChannel
	}

	return results
}

func (e Exporter) exportStem(ctx context.Context, done chan error, name string, destPath string) {
	logger := log.WithFields(log.Fields{
		"stemName": name,
		"destPath": destPath,
	})

	stem, err := e.stemStore.Get(name)
	if err != nil {
		logger.Error("Failed to find stem to export")
		done <- err
		return
	}

	encoded := &memWriteSeeker{}
	if err := stem.Encode(encoded); err != nil {
		logger.Error("Failed to encode stem")
		done <- cerr.Field("stem_name", name).Wrap(err).Error("Failed to encode stem for export")
		return
	}

	if err := e.fileStore.WriteFile(ctx, destPath, encoded.Bytes()); err != nil {
		logger.Error("Failed to write stem file")
		done <- cerr.Field("write_error", err.Error()).
			Wrap(IOError).Error("Failed to write exported stem")
		return
	}

	logger.Info("Exported stem")
	done <- nil
}

func destFilePath(destDir string, stemName string) string {
	return fmt.Sprintf("%s/%s.wav", strings.TrimSuffix(destDir, "/"), stemName)
}
