// Package docs holds the OpenAPI document served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Регистрация организатора",
                "parameters": [
                    {"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/services.RegisterInput"}}
                ],
                "responses": {
                    "201": {"description": "Созданный пользователь", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "Email уже занят", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "422": {"description": "Ошибка валидации", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Вход и получение JWT",
                "parameters": [
                    {"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/services.LoginInput"}}
                ],
                "responses": {
                    "200": {"description": "Токен и пользователь", "schema": {"type": "object", "additionalProperties": true}},
                    "401": {"description": "Неверные учётные данные", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Текущий пользователь",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/formats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["formats"],
                "summary": "Доступные форматы",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/preview/{mode}": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["formats"],
                "summary": "Предпросмотр расписания без сохранения",
                "parameters": [
                    {"type": "string", "in": "path", "name": "mode", "required": true, "enum": ["round_robin", "swiss_elimination", "groups_divisions", "custom_playoff"]},
                    {"in": "body", "name": "input", "required": true, "schema": {"type": "object", "additionalProperties": true}}
                ],
                "responses": {
                    "200": {"description": "Расписание", "schema": {"type": "object", "additionalProperties": true}},
                    "422": {"description": "Ошибка валидации", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/tournaments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Список турниров",
                "parameters": [
                    {"type": "integer", "in": "query", "name": "organizer_id"},
                    {"type": "string", "in": "query", "name": "status"},
                    {"type": "integer", "in": "query", "name": "limit"},
                    {"type": "integer", "in": "query", "name": "offset"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Создать турнир",
                "parameters": [
                    {"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/services.CreateTournamentInput"}}
                ],
                "responses": {
                    "201": {"description": "Турнир создан", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "Название занято", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "422": {"description": "Ошибка валидации формата", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/tournaments/{tournamentID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Турнир с расписанием, матчами и таблицей",
                "parameters": [
                    {"type": "integer", "in": "path", "name": "tournamentID", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Турнир не найден", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/tournaments/{tournamentID}/schedule": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Сгенерировать расписание",
                "parameters": [
                    {"type": "integer", "in": "path", "name": "tournamentID", "required": true}
                ],
                "responses": {
                    "200": {"description": "Расписание", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "Результаты уже внесены", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/tournaments/{tournamentID}/standings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Турнирная таблица",
                "parameters": [
                    {"type": "integer", "in": "path", "name": "tournamentID", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/tournaments/{tournamentID}/disciplinary": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Штрафные (дисциплинарные) очки",
                "parameters": [
                    {"type": "integer", "in": "path", "name": "tournamentID", "required": true},
                    {"in": "body", "name": "input", "required": true, "schema": {"type": "object", "additionalProperties": {"type": "integer"}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/tournaments/{tournamentID}/matches": {
            "get": {
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Матчи турнира",
                "parameters": [
                    {"type": "integer", "in": "path", "name": "tournamentID", "required": true},
                    {"type": "integer", "in": "query", "name": "round"},
                    {"type": "boolean", "in": "query", "name": "is_playoff"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/tournaments/{tournamentID}/matches/{matchID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Матч",
                "parameters": [
                    {"type": "integer", "in": "path", "name": "tournamentID", "required": true},
                    {"type": "string", "in": "path", "name": "matchID", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/tournaments/{tournamentID}/matches/{matchID}/result": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Внести или исправить результат",
                "parameters": [
                    {"type": "integer", "in": "path", "name": "tournamentID", "required": true},
                    {"type": "string", "in": "path", "name": "matchID", "required": true},
                    {"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/services.ResultInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "Участники ещё не определены / результат заблокирован", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "422": {"description": "Некорректный счёт", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/ws/tournaments/{tournamentID}": {
            "get": {
                "tags": ["realtime"],
                "summary": "Подписка на события турнира",
                "parameters": [
                    {"type": "integer", "in": "path", "name": "tournamentID", "required": true}
                ],
                "responses": {
                    "101": {"description": "Switching Protocols"}
                }
            }
        }
    },
    "definitions": {
        "services.RegisterInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "services.LoginInput": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "services.CreateTournamentInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "team_ids": {"type": "array", "items": {"type": "string"}},
                "settings": {"type": "object", "additionalProperties": true}
            }
        },
        "services.ResultInput": {
            "type": "object",
            "properties": {
                "home_goals": {"type": "integer"},
                "away_goals": {"type": "integer"},
                "date": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Fixture Engine API",
	Description:      "Tournament fixtures, brackets and standings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
