package docs

import "github.com/swaggo/swag"

// @title           Goal Tracker API
// @version         1.0
// @description     API for goal boards: categories, goals, comments and role-based collaboration

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token

// @tag.name Users
// @tag.description Registration and login

// @tag.name Boards
// @tag.description Board management and participants

// @tag.name Categories
// @tag.description Goal categories inside boards

// @tag.name Goals
// @tag.description Goals and their lifecycle

// @tag.name Comments
// @tag.description Comments on goals

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Goal Tracker API",
        "version": "1.0"
    },
    "basePath": "/"
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Goal Tracker API",
	Description:      "API for goal boards",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
