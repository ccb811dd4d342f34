package structgraph

import (
	"errors"
	"github.com/viant/structgraph/metadata"
)

var (
	//ErrMetadataUnavailable reports metadata lookup failure, no partial output is returned with it
	ErrMetadataUnavailable = metadata.ErrMetadataUnavailable
	//ErrMaxDepthExceeded reports graph deeper than configured max depth
	ErrMaxDepthExceeded = errors.New("max depth exceeded")
)
