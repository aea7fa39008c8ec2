// @title           MediaVault API
// @version         1.0
// @description     Личное хранилище аудио и видео: проекты, загрузка файлов и защищённая раздача через nginx.
// @host            localhost:8000
// @BasePath        /

package main

import "mediavault_backend/internal/app"

func main() {
	app.Run()
}
