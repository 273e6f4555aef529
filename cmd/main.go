// cmd/main.go
package main

import (
	"nfc-transactions-api/app"
)

// @title           NFC Transactions API
// @version         1.0
// @description     REST API for recording and querying financial transactions, including NFC tap metadata.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
func main() {
	app.Run()
}
