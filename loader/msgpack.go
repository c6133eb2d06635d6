package loader

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/erraggy/datafile/dferrors"
	"github.com/erraggy/datafile/document"
)

// LoadMsgpack reads a MessagePack file whose top level is a map.
// On a suppressed error it returns an empty map.
func LoadMsgpack(path string, opts ...Option) (*document.Map, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return document.NewMap(), err
	}
	m, err := cfg.loadMsgpack(path)
	if err != nil {
		return document.NewMap(), cfg.suppress("load msgpack", path, err)
	}
	return m, nil
}

func (cfg *config) loadMsgpack(path string) (*document.Map, error) {
	abs, data, err := cfg.read(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return document.NewMap(), nil
	}
	m := document.NewMap()
	if err := msgpack.Unmarshal(data, m); err != nil {
		return nil, &dferrors.ParseError{Path: abs, Format: "msgpack", Cause: err}
	}
	return m, nil
}

// SaveMsgpack writes content to path as MessagePack. Map key order is kept.
func SaveMsgpack(path string, content any, opts ...Option) error {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return err
	}
	err = func() error {
		data, err := msgpack.Marshal(document.FromPlain(content))
		if err != nil {
			return &dferrors.ParseError{Path: path, Format: "msgpack", Message: "cannot encode content", Cause: err}
		}
		return cfg.saveBytes(path, data)
	}()
	return cfg.suppress("save msgpack", path, err)
}
