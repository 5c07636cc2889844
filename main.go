/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package main

import (
	"github.com/josephgoksu/litedo/cmd"
	"github.com/josephgoksu/litedo/internal/logger"
)

func main() {
	defer logger.HandlePanic()
	cmd.Execute()
}
