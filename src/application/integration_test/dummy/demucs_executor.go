package dummy

import (
	"os"
	"path/filepath"
	"strings"

	"stem-session/src/application/executor"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

var _ executor.Executor = DemucsExecutor{}

var dummyStemLengths = map[string]int{
	"bass":   2048,
	"drums":  1024,
	"other":  512,
	"vocals": 4096,
}

func NewDummyDemucsExecutor() *DemucsExecutor {
	return &DemucsExecutor{
		Unavailable: false,
	}
}

// DemucsExecutor pretends to be the demucs CLI: it reads the input
// file and writes one small WAV per stem into the layout the real
// binary produces.
type DemucsExecutor struct {
	Unavailable bool
}

type DemucsCommand struct {
	Unavailable bool
	Args        []string
}

func (d DemucsExecutor) Command(_ string, arg ...string) executor.Command {
	return &DemucsCommand{
		Unavailable: d.Unavailable,
		Args:        arg,
	}
}

func (d *DemucsCommand) SetDir(_ string) {}

func (d *DemucsCommand) CombinedOutput() ([]byte, error) {
	if d.Unavailable {
		return []byte("Torch was not in the mood today"), UnexpectedInput
	}

	modelName, err := getOptionValue(d.Args, "-n")
	if err != nil {
		return nil, err
	}

	outputDir, err := getOptionValue(d.Args, "-o")
	if err != nil {
		return nil, err
	}

	sourcePath := d.Args[len(d.Args)-1]
	if _, err := os.ReadFile(sourcePath); err != nil {
		return nil, err
	}

	baseName := filepath.Base(sourcePath)
	baseName = strings.TrimSuffix(baseName, filepath.Ext(baseName))

	stemsDir := filepath.Join(outputDir, modelName, baseName)
	if err := os.MkdirAll(stemsDir, os.ModePerm); err != nil {
		return nil, err
	}

	format := beep.Format{
		SampleRate:  44100,
		NumChannels: 2,
		Precision:   2,
	}

	for stem, numSamples := range dummyStemLengths {
		if err := writeDummyWAV(filepath.Join(stemsDir, stem+".wav"), format, numSamples); err != nil {
			return nil, err
		}
	}

	return []byte("Success"), nil
}

func writeDummyWAV(path string, format beep.Format, numSamples int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	defer file.Close()

	return wav.Encode(file, beep.Silence(numSamples), format)
}

func getOptionValue(args []string, key string) (string, error) {
	for i, arg := range args {
		if arg == key && i+1 < len(args) {
			return args[i+1], nil
		}
	}

	return "", UnexpectedInput
}
