package response

import "github.com/gin-gonic/gin"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the only response shape the API produces.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    Data   `json:"data"`
}

type Data struct {
	Authentication *Authentication `json:"authentication,omitempty"`
	User           any             `json:"user,omitempty"`
	Payload        any             `json:"payload,omitempty"`
}

// Authentication reports the access token the client should use next.
// OldAccessToken is null when the token was minted by login rather than rotation.
type Authentication struct {
	OldAccessToken *string `json:"oldAccessToken"`
	NewAccessToken string  `json:"newAccessToken"`
}

func Success(c *gin.Context, statusCode int, message string, data Data) {
	c.JSON(statusCode, Envelope{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Envelope{
		Status:  StatusError,
		Message: message,
	})
}

// Abort writes an error envelope and stops the handler chain.
func Abort(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, Envelope{
		Status:  StatusError,
		Message: message,
	})
}
