// Package transport runs strictly synchronous request/response exchanges
// with an OpenVario device over a byte stream.
//
// A Session owns the Port for the duration of each call: it discards stale
// input, writes one request frame and runs the protocol receive state
// machine until the matching response arrives or a byte read times out.
// There is never more than one outstanding request.
//
//	sess, err := transport.NewSession(port, transport.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	payload, err := sess.SendRequest(ctx, protocol.ReqDeviceInfo, nil)
//
// Errors:
//   - ErrWriteFailure: the request frame was not written in full
//   - protocol.ErrTimeout: no valid response before a byte read timed out
//
// Both mean the request produced no response.
package transport
