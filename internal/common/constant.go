package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// UsersCollection is the document collection holding user profiles.
const UsersCollection = "users"

// ProfileImagesPrefix is the blob path prefix for profile photos.
const ProfileImagesPrefix = "profile_images/"

// Identity providers.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
	ProviderApple    = "apple"
)
