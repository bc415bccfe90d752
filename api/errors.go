package api

import "errors"

var (
	errMalformedChain  = errors.New("api: malformed chain id in request path")
	errMalformedHeight = errors.New("api: malformed block height in request path")
)
