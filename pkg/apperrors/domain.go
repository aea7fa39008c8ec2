package apperrors

import (
	"net/http"
)

/*
Предопределенные ошибки бизнес-логики.
Детали (ошибки конкретных полей формы) добавляются через WithDetails.
*/

// --- Accounts ---

// ErrUsernameTaken - имя пользователя уже занято.
var ErrUsernameTaken = New(
	CodeAlreadyExists,
	"accounts",
	"Username is already taken",
	http.StatusConflict, // 409
)

// ErrEmailTaken - email уже зарегистрирован.
var ErrEmailTaken = New(
	CodeAlreadyExists,
	"accounts",
	"Email is already registered",
	http.StatusConflict, // 409
)

// ErrPasswordMismatch - password1 и password2 не совпадают.
var ErrPasswordMismatch = New(
	CodeValidationFailed,
	"validation",
	"The two password fields didn't match",
	http.StatusBadRequest,
)

// ErrWeakPassword - пароль не прошел проверки сложности.
var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak",
	http.StatusBadRequest,
)

// ErrInvalidCredentials - неверное имя пользователя или пароль.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid username or password",
	http.StatusUnauthorized, // 401
)

// ErrUserInactive - аккаунт еще не активирован.
var ErrUserInactive = New(
	CodeUserInactive,
	"auth",
	"This account is inactive. Please activate it via the link sent by email",
	http.StatusForbidden, // 403
)

// ErrActivationFailed - общая ошибка активации. Без подробностей,
// чтобы нельзя было перебором узнать, какие аккаунты существуют.
var ErrActivationFailed = New(
	CodeActivationFailed,
	"accounts",
	"Activation link is invalid or has expired",
	http.StatusBadRequest,
)

// ErrInsufficientPermissions - не-staff пытается выполнить админ-действие.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden, // 403
)

// ErrCannotDeleteSelf - администратор пытается удалить свою учётную запись.
var ErrCannotDeleteSelf = New(CodeForbidden, "accounts", "You cannot delete your own account", http.StatusForbidden)

// ErrProtectedAccount - staff без прав суперпользователя удаляет суперпользователя.
var ErrProtectedAccount = New(CodeForbidden, "accounts", "Only a superuser can delete a superuser", http.StatusForbidden)

// ErrUserNotFound - пользователь не найден.
var ErrUserNotFound = New(CodeNotFound, "accounts", "User not found", http.StatusNotFound)

// --- Projects ---

// ErrProjectNotFound - проект не найден ИЛИ принадлежит другому пользователю.
var ErrProjectNotFound = New(CodeNotFound, "projects", "Project not found", http.StatusNotFound)

// ErrProjectNameTaken - у пользователя уже есть проект с таким именем.
var ErrProjectNameTaken = New(
	CodeAlreadyExists,
	"projects",
	"You already have a project with this name",
	http.StatusConflict,
)

// --- Media ---

// ErrMediaFileNotFound - медиафайл не найден ИЛИ принадлежит другому пользователю.
var ErrMediaFileNotFound = New(CodeNotFound, "media", "Media file not found", http.StatusNotFound)

// ErrFileNotFound - физический файл отсутствует в хранилище.
var ErrFileNotFound = New(CodeNotFound, "media", "File not found", http.StatusNotFound)

// ErrFileRequired - запрос на загрузку без файла.
var ErrFileRequired = New(CodeValidationFailed, "validation", "A file is required", http.StatusBadRequest)

// ErrFileTooLarge - файл превышает максимальный размер (100MB).
var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File is too large. Please choose a file of 100MB or less",
	http.StatusBadRequest,
)

// ErrInvalidFileType - тип содержимого не соответствует заявленному file_type.
var ErrInvalidFileType = New(
	CodeInvalidFileType,
	"validation",
	"The uploaded content does not match the selected file type",
	http.StatusBadRequest,
)
