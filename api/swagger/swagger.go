package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SkillNaav API",
        "description": "Internship scheduling, Google Calendar sync and offer letters",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Schedules", "description": "Internship schedule builder and store"},
        {"name": "Google", "description": "Google OAuth and calendar sync"},
        {"name": "OfferLetters", "description": "Offer letter generation and responses"},
        {"name": "Notifications", "description": "In-app notifications"},
        {"name": "OfferTemplates", "description": "Reusable partner offer wording"}
    ],
    "paths": {
        "/schedule/create": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Create or replace an internship schedule",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/UpsertScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "Saved", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/schedule/preview": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Expand a date range into a timetable without saving it",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/PreviewScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "Generated timetable", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/schedule/get-schedule": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Get the schedule of an internship and partner",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "internshipId", "type": "string", "required": true},
                    {"in": "query", "name": "partnerId", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Schedule", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/schedule/ics": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Download a schedule as an iCalendar file",
                "produces": ["text/calendar"],
                "parameters": [
                    {"in": "query", "name": "internshipId", "type": "string", "required": true},
                    {"in": "query", "name": "partnerId", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "iCalendar document", "schema": {"type": "file"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/google/auth": {
            "get": {
                "tags": ["Google"],
                "summary": "Redirect to the Google consent screen",
                "responses": {
                    "302": {"description": "Redirect to Google"}
                }
            }
        },
        "/google/callback": {
            "get": {
                "tags": ["Google"],
                "summary": "Complete the OAuth flow and sync the latest schedule",
                "produces": ["text/html"],
                "parameters": [
                    {"in": "query", "name": "code", "type": "string"},
                    {"in": "query", "name": "state", "type": "string"},
                    {"in": "query", "name": "error", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Success page that posts the sync result to the opener"},
                    "400": {"description": "Error page"}
                }
            }
        },
        "/google/sync": {
            "post": {
                "tags": ["Google"],
                "summary": "Re-run the calendar sync for a stored schedule",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/SyncScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "Sync result", "schema": {"$ref": "#/definitions/Envelope"}},
                    "401": {"description": "Re-authentication required", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/google/test-event": {
            "post": {
                "tags": ["Google"],
                "summary": "Create a single test event on the student's calendar",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"type": "object", "properties": {"email": {"type": "string"}}}}
                ],
                "responses": {
                    "200": {"description": "Test event created", "schema": {"$ref": "#/definitions/Envelope"}},
                    "401": {"description": "Re-authentication required", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/offer-letters": {
            "post": {
                "tags": ["OfferLetters"],
                "summary": "Generate and send an offer letter",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/SendOfferLetterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Offer letter sent", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/offer-letters/student/{studentId}": {
            "get": {
                "tags": ["OfferLetters"],
                "summary": "Get the latest offer letter of a student",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "studentId", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Offer letter", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/offer-letters/{id}/status": {
            "patch": {
                "tags": ["OfferLetters"],
                "summary": "Accept or reject an offer letter",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"type": "object", "properties": {"status": {"type": "string", "enum": ["Accepted", "Rejected"]}}}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/offer-letters/download/{token}": {
            "get": {
                "tags": ["OfferLetters"],
                "summary": "Download an offer letter through a signed link",
                "produces": ["application/pdf"],
                "parameters": [
                    {"in": "path", "name": "token", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "PDF document", "schema": {"type": "file"}},
                    "401": {"description": "Invalid or expired link", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/notifications/{studentId}": {
            "get": {
                "tags": ["Notifications"],
                "summary": "List a student's notifications",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "studentId", "type": "string", "required": true},
                    {"in": "query", "name": "limit", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Notifications", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/notifications/{id}/read": {
            "patch": {
                "tags": ["Notifications"],
                "summary": "Mark a notification as read",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Marked as read"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/templates": {
            "get": {
                "tags": ["OfferTemplates"],
                "summary": "List a partner's offer templates",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "partnerId", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Templates, newest first", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "partnerId is required", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "post": {
                "tags": ["OfferTemplates"],
                "summary": "Save an offer template",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CreateOfferTemplateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Template saved", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "All fields are required", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "Location": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "address": {"type": "string"},
                "mapLink": {"type": "string"}
            }
        },
        "ScheduleEntry": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "example": "2024-01-01"},
                "day": {"type": "string"},
                "startTime": {"type": "string", "example": "10:00"},
                "endTime": {"type": "string", "example": "11:00"},
                "eventLink": {"type": "string"},
                "sectionSummary": {"type": "string"},
                "instructor": {"type": "string"},
                "type": {"type": "string", "enum": ["online", "offline", "hybrid"]},
                "location": {"$ref": "#/definitions/Location"},
                "events": {"type": "array", "items": {"type": "object"}}
            }
        },
        "UpsertScheduleRequest": {
            "type": "object",
            "required": ["internshipId", "partnerId", "startDate", "endDate", "workHours"],
            "properties": {
                "internshipId": {"type": "string"},
                "partnerId": {"type": "string"},
                "startDate": {"type": "string"},
                "endDate": {"type": "string"},
                "workHours": {"type": "string"},
                "defaultStartTime": {"type": "string"},
                "defaultEndTime": {"type": "string"},
                "defaultEventLink": {"type": "string"},
                "defaultType": {"type": "string", "enum": ["online", "offline", "hybrid"]},
                "defaultLocation": {"$ref": "#/definitions/Location"},
                "selectedDays": {"type": "array", "items": {"type": "string"}},
                "timetable": {"type": "array", "items": {"$ref": "#/definitions/ScheduleEntry"}}
            }
        },
        "PreviewScheduleRequest": {
            "type": "object",
            "required": ["startDate", "endDate", "selectedDays"],
            "properties": {
                "startDate": {"type": "string"},
                "endDate": {"type": "string"},
                "defaultStartTime": {"type": "string"},
                "defaultEndTime": {"type": "string"},
                "defaultEventLink": {"type": "string"},
                "defaultType": {"type": "string"},
                "defaultLocation": {"$ref": "#/definitions/Location"},
                "selectedDays": {"type": "array", "items": {"type": "string"}},
                "overrides": {"type": "object"},
                "manualDates": {"type": "array", "items": {"type": "string"}},
                "subEvents": {"type": "array", "items": {"type": "object"}}
            }
        },
        "SyncScheduleRequest": {
            "type": "object",
            "required": ["email", "internshipId", "partnerId"],
            "properties": {
                "email": {"type": "string"},
                "internshipId": {"type": "string"},
                "partnerId": {"type": "string"}
            }
        },
        "SendOfferLetterRequest": {
            "type": "object",
            "required": ["studentId", "name", "email", "position", "startDate"],
            "properties": {
                "studentId": {"type": "string"},
                "internshipId": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "position": {"type": "string"},
                "startDate": {"type": "string"},
                "companyName": {"type": "string"},
                "location": {"type": "string"},
                "duration": {"type": "string"},
                "internshipType": {"type": "string", "enum": ["STIPEND", "PAID", "FREE"]},
                "compensation": {"$ref": "#/definitions/CompensationRequest"},
                "jobDescription": {"type": "string"},
                "qualifications": {"type": "array", "items": {"type": "string"}},
                "noticePeriod": {"type": "string"},
                "contact": {"$ref": "#/definitions/ContactRequest"}
            }
        },
        "CompensationRequest": {
            "type": "object",
            "properties": {
                "amount": {"type": "number"},
                "currency": {"type": "string"},
                "frequency": {"type": "string"},
                "benefits": {"type": "array", "items": {"type": "string"}},
                "additionalCosts": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "description": {"type": "string"},
                            "amount": {"type": "number"},
                            "currency": {"type": "string"}
                        }
                    }
                }
            }
        },
        "ContactRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "CreateOfferTemplateRequest": {
            "type": "object",
            "required": ["partnerId", "title", "content"],
            "properties": {
                "partnerId": {"type": "string"},
                "title": {"type": "string"},
                "content": {"type": "string"}
            }
        },
        "Envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {"type": "object"},
                "error": {"type": "string"},
                "code": {"type": "string"},
                "details": {"type": "string"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
