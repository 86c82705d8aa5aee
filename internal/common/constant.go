package common

// AccessTokenHeaderName is the gRPC metadata key that carries the access
// token on outbound requests.
const AccessTokenHeaderName = "access_token"

// DefaultSharePrefix is prepended to object keys of published QR images.
const DefaultSharePrefix = "qr"
