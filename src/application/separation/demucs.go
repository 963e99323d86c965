package separation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stem-session/src/application/executor"
	"stem-session/src/application/stems/entity"
	"stem-session/src/lib/cerr"
	"stem-session/src/lib/werror"
	"stem-session/src/lib/working_dir"

	"github.com/apex/log"
	"github.com/gopxl/beep/v2/wav"
)

var _ Backend = DemucsBackend{}

const DefaultModelName = "htdemucs"

// matches the file types offered by the front end's file picker
var supportedExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
}

func NewDemucsBackend(workingDirStr string, demucsBinPath string, modelName string, executor executor.Executor) (DemucsBackend, error) {
	workingDir, err := working_dir.NewWorkingDir(workingDirStr)
	if err != nil {
		return DemucsBackend{}, cerr.Wrap(err).Error("Failed to convert working dir to absolute format")
	}

	if modelName == "" {
		modelName = DefaultModelName
	}

	return DemucsBackend{
		workingDir:    workingDir,
		demucsBinPath: demucsBinPath,
		modelName:     modelName,
		executor:      executor,
	}, nil
}

type DemucsBackend struct {
	workingDir    working_dir.WorkingDir
	demucsBinPath string
	modelName     string
	executor      executor.Executor
}

func (d DemucsBackend) Extract(ctx context.Context, audioPath string) ([]entity.StemBuffer, error) {
	absAudioPath, err := filepath.Abs(audioPath)
	if err != nil {
		return nil, werror.WrapError("Cannot convert source path to absolute format", err)
	}

	if err := d.checkInputFile(absAudioPath); err != nil {
		return nil, err
	}

	// separation is a lengthy process, if we want to halt now is the time
	if ctx.Err() != nil {
		return nil, werror.WrapError("Context cancelled before separation could happen", ctx.Err())
	}

	outputDir, removeOutputDir, err := d.createOutputDir()
	if err != nil {
		return nil, cerr.Wrap(err).Error("Failed to create directory for model output")
	}

	defer removeOutputDir()

	if err := d.runDemucs(absAudioPath, outputDir); err != nil {
		return nil, werror.WrapError("Failed to execute demucs", err)
	}

	stemsDir := filepath.Join(outputDir, d.modelName, entity.BasenameFromPath(absAudioPath))
	return decodeStemFiles(stemsDir)
}

func (d DemucsBackend) checkInputFile(audioPath string) error {
	fileInfo, err := os.Stat(audioPath)
	if err != nil {
		return cerr.Field("audio_path", audioPath).
			Wrap(FileUnreadable).Error("Input file is missing or unreadable")
	}

	if fileInfo.IsDir() {
		return cerr.Field("audio_path", audioPath).
			Wrap(FileUnreadable).Error("Input path is a directory")
	}

	ext := strings.ToLower(filepath.Ext(audioPath))
	if !supportedExtensions[ext] {
		return cerr.Field("audio_path", audioPath).
			Field("extension", ext).
			Wrap(UnsupportedFormat).Error("Input file has an unsupported extension")
	}

	return nil
}

func (d DemucsBackend) createOutputDir() (string, func(), error) {
	outputDir, err := os.MkdirTemp(d.workingDir.TempDir(), "separated-*")
	if err != nil {
		return "", nil, cerr.Wrap(err).Error("Failed to create a temporary output directory")
	}

	removeOutputDirFn := func() {
		err := os.RemoveAll(outputDir)
		if err != nil {
			log.WithField("outputDir", outputDir).Error("Failed to remove model output dir")
		}
	}

	return outputDir, removeOutputDirFn, nil
}

func (d DemucsBackend) runDemucs(sourcePath string, outputDir string) error {
	logger := log.WithFields(log.Fields{
		"sourcePath": sourcePath,
		"outputDir":  outputDir,
		"modelName":  d.modelName,
		"workingDir": d.workingDir,
	})

	logger.Info("Running demucs command")
	cmd := d.executor.Command(d.demucsBinPath, "-n", d.modelName, "-o", outputDir, "--filename", "{stem}.{ext}", sourcePath)
	cmd.SetDir(d.workingDir.Root())

	output, err := cmd.CombinedOutput()
	if err != nil {
		errMsg := fmt.Sprintf("Error occurred while running demucs - output: %s", string(output))
		return werror.WrapError(errMsg, ModelError)
	}

	logger.Debug(string(output))
	logger.Info("Finished demucs command")

	return nil
}

func decodeStemFiles(dir string) ([]entity.StemBuffer, error) {
	logger := log.WithFields(log.Fields{
		"dir": dir,
	})

	logger.Info("Reading model output directory to decode stems")
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, werror.WrapError("Error reading model output directory", ModelError)
	}

	stems := []entity.StemBuffer{}

	// os.ReadDir sorts by file name, which keeps the output order
	// stable between runs of the same model
	for _, dirEntry := range dirEntries {
		if dirEntry.IsDir() {
			continue
		}

		fileName := dirEntry.Name()
		if strings.ToLower(filepath.Ext(fileName)) != ".wav" {
			continue
		}

		stem, err := decodeStemFile(filepath.Join(dir, fileName))
		if err != nil {
			return nil, cerr.Field("file_name", fileName).
				Wrap(err).Error("Failed to decode model output file")
		}

		stems = append(stems, stem)
	}

	if len(stems) == 0 {
		return nil, werror.WrapError("No stem files in model output directory", ModelError)
	}

	return stems, nil
}

func decodeStemFile(filePath string) (entity.StemBuffer, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return entity.StemBuffer{}, werror.WrapError("Failed to open stem file", ModelError)
	}

	defer file.Close()

	streamer, format, err := wav.Decode(file)
	if err != nil {
		return entity.StemBuffer{}, werror.WrapError("Failed to decode stem file as WAV", ModelError)
	}

	defer streamer.Close()

	return entity.NewStemBuffer(format, streamer), nil
}
