// Package services holds the HTTP clients grand depends on.
//
// # Content backend
//
// [APIService] performs raw requests and keeps status, headers and body intact; the proxy routes
// forward its responses as they are. [BackendService] builds on it with typed calls for
// registering an elder, listing content and triggering YouTube or Spotify generation.
// Non-2xx answers become [*UpstreamError], which unwraps to [shared.ErrUpstream].
//
// # Text generation
//
// [OpenAIClient] implements [TextGenerator] against any OpenAI compatible /chat/completions endpoint.
//
// # Spotify metadata
//
// [SpotifyService] uses the client credentials grant (no user login) to look up episode and
// track titles, creators and artwork. Results are kept in an LRU cache.
//
// # Error Handling
//
//   - [shared.ErrAPIRequest] : the request could not be made or the body could not be read
//   - [shared.ErrUpstream] : the remote answered with a non-2xx status
//   - [shared.ErrMissingCredentials] : no API key or client secret configured
//   - [shared.ErrEmptyCompletion] : the model answered with no text
package services
