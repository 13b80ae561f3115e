package app

import (
	"io"

	"github.com/vk/gridgate/internal/registry"
	"github.com/vk/gridgate/modules/env_vars"
	"github.com/vk/gridgate/modules/fail"
	"github.com/vk/gridgate/modules/http_request"
	"github.com/vk/gridgate/modules/print"
	"github.com/vk/gridgate/modules/socketio_emit"
	"github.com/vk/gridgate/modules/template"
)

// coreModules is the definitive list of all modules that are compiled into
// the gridgate binary. print writes to outW.
func coreModules(outW io.Writer) []registry.Module {
	return []registry.Module{
		&env_vars.Module{},
		&fail.Module{},
		&http_request.Module{},
		&print.Module{Out: outW},
		&socketio_emit.Module{},
		&template.Module{},
	}
}
