package chainweb

import "errors"

// ErrWrongHeaderLength means a header buffer was not a Decoder's
// expected fixed length. Supervisor.Submit checks this against the
// length the Decoder advertises before ever calling Decode; Decoder
// implementations such as SimpleDecoder re-check it as a guard against
// being called directly.
var ErrWrongHeaderLength = errors.New("chainweb: header buffer has the wrong length")
