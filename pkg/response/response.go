package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the JSON shape every API response uses.
// Payload fields are flattened next to "success" to match the public API
// contract (e.g. {"success": true, "booking": {...}}).
type Envelope map[string]interface{}

// OK writes a 200 response with success=true and the given payload fields
func OK(c *gin.Context, payload Envelope) {
	JSON(c, http.StatusOK, payload)
}

// Created writes a 201 response with success=true and the given payload fields
func Created(c *gin.Context, payload Envelope) {
	JSON(c, http.StatusCreated, payload)
}

// JSON writes a success response with an arbitrary status code
func JSON(c *gin.Context, status int, payload Envelope) {
	body := Envelope{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// Error writes a failure response
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{
		"success": false,
		"message": message,
	})
}

// AbortError writes a failure response and aborts the handler chain
func AbortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{
		"success": false,
		"message": message,
	})
}

// BadRequest writes a 400 failure response
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// NotFound writes a 404 failure response
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Unauthorized writes a 401 failure response
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// InternalError writes a 500 failure response
func InternalError(c *gin.Context, err error) {
	Error(c, http.StatusInternalServerError, err.Error())
}
