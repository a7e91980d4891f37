//go:build linux

package app

import "github.com/dshills/normkeys/internal/capture"

// newEvdevSource builds the evdev capture source.
func (app *Application) newEvdevSource() (capture.Source, error) {
	var opts []capture.EvdevOption
	if app.opts.Device != "" {
		opts = append(opts, capture.WithDevicePath(app.opts.Device))
	}
	src, err := capture.NewEvdev(app.engine, opts...)
	if err != nil {
		return nil, err
	}
	app.logger.Info("reading evdev device %s", src.Path())
	return src, nil
}
