// Package response provides the write view over an outgoing HTTP response.
//
// Mutators (SetHeader, Status, Cookie, SetType, SetLinks, ...) return the
// same *Response for chaining and may be called any number of times before
// the response is finalized; the last write wins. Finalizers write the
// response and return the completion token a middleware must return:
//
//	func(next handler.Next, req *request.Request, res *response.Response) handler.Done {
//		return res.Status(status.Created).SendJSON(user)
//	}
//
// Finalizing twice panics with ErrAlreadySent, which the router's fault
// boundary recovers and logs. Mutations after finalization are ignored.
//
// # Bodies
//
//   - SendString defaults Content-Type to text/html
//   - SendJSON and SendArray encode JSON
//   - SendBuffer defaults to application/octet-stream
//   - SendStatus writes the reason phrase as text/plain
//   - SendContent and SendFile stream with Range and conditional support
//   - Render executes a ViewEngine view, RenderComponent a templ component
//
// Buffered GET and HEAD bodies carry a weak ETag; a request that is still
// fresh gets 304 Not Modified without a body.
//
// # Errors
//
// SendFile, Render and RenderComponent return an error instead of writing a
// partial response; forward it with next.Fail. HTTPError carries a status
// for the final handler:
//
//	return next.Fail(response.ErrNotFound.WithMessage("user not found"))
package response
