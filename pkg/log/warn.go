package log

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/grailbox/lifeboat/pkg/errors"
)

// InstallWarnSink routes pkg/errors warnings to a zerolog console writer.
// Warning types that implement zerolog.LogObjectMarshaler are emitted as
// structured objects; anything else is logged by its Error() string.
func InstallWarnSink() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	errors.SetZerologWarnFunc(func(warning error) {
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			logger.Warn().EmbedObject(obj).Msg(warning.Error())
			return
		}
		logger.Warn().Msg(warning.Error())
	})
}
