package dto

// StatusSecretDeleted is the status reported after a successful delete.
const StatusSecretDeleted = "secret_deleted"

// CreateSecretResponse carries the access key of a newly stored secret.
type CreateSecretResponse struct {
	SecretKey string `json:"secret_key"`
}

// ReadSecretResponse carries the plaintext of a consumed secret.
// SECURITY: Must be transmitted over HTTPS in production.
type ReadSecretResponse struct {
	Secret string `json:"secret"`
}

// DeleteSecretResponse reports the outcome of a delete call.
type DeleteSecretResponse struct {
	Status string `json:"status"`
}

// MapPlaintextToReadResponse converts a decrypted payload into the read response. The
// caller still owns plaintext and must zero it after the response is written.
func MapPlaintextToReadResponse(plaintext []byte) ReadSecretResponse {
	return ReadSecretResponse{Secret: string(plaintext)}
}
