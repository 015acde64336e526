// Command shortcli сокращает ссылки из терминала тем же сценарием, что и веб-страница,
// и помнит последний результат между запусками.
package main

import (
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd(nil).Execute(); err != nil {
		zap.L().Fatal("command failed", zap.Error(err))
	}
}
