package signer

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"xdao.co/nkeys/nkeys"
)

// mapRPC turns server status codes back into nkeys errors where the server
// uses a code for one specific kind.
func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.FailedPrecondition:
		// Server uses FailedPrecondition for public-only key pairs.
		return &nkeys.Error{Kind: nkeys.KindMissingPrivateKey, Message: st.Message(), Cause: err}
	case codes.InvalidArgument:
		return &nkeys.Error{Kind: nkeys.KindInvalidSignatureSize, Message: st.Message(), Cause: err}
	default:
		return err
	}
}
