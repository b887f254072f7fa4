package cmd

import "github.com/ardnew/packrat/packrat"

// Predefined errors (sentinel values).
var (
	ErrJSONMarshal    = packrat.NewError("marshal JSON")
	ErrYAMLMarshal    = packrat.NewError("marshal YAML")
	ErrWriteConfig    = packrat.NewError("write configuration file")
	ErrReadConfig     = packrat.NewError("read configuration file")
	ErrFileExists     = packrat.NewError("file exists (use --force to overwrite)")
	ErrReadInput      = packrat.NewError("read input")
	ErrReadSchema     = packrat.NewError("read schema")
	ErrReadItems      = packrat.NewError("read items")
	ErrUnknownGrammar = packrat.NewError("unknown grammar")
	ErrInvalidInput   = packrat.NewError("invalid input")
)
