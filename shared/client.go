package shared

import (
	"crypto/tls"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

const DefaultTimeout = 15 * time.Second

func HttpClient(ignoreSSL bool) *http.Client {
	if ignoreSSL {
		log.Warn("SSL certificate verification disabled")
		tr := &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
		}
		return &http.Client{Transport: tr, Timeout: DefaultTimeout}
	}

	return &http.Client{Timeout: DefaultTimeout}
}

// FiberAgent returns an agent that is released by Bytes/String/Struct. Call
// fiber.ReleaseAgent yourself only when Parse fails.
func FiberAgent(ignoreSSL bool) *fiber.Agent {
	agent := fiber.AcquireAgent()
	agent.Timeout(DefaultTimeout)

	if ignoreSSL {
		log.Warn("SSL certificate verification disabled for Fiber Agent")
		agent.InsecureSkipVerify()
	}

	return agent
}
