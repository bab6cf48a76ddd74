package app

// OpenAPISpec is the OpenAPI document served at /docs/openapi.yaml
var OpenAPISpec = []byte(`openapi: 3.0.3
info:
  title: Autoposter API
  description: Content queue and scheduling API for multi-platform video posting
  version: 1.0.0
servers:
  - url: /api/v1
paths:
  /queue:
    post:
      summary: Submit a content item to the queue
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/SubmitRequest'
      responses:
        '201':
          description: Content item created
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/ContentItem'
        '400':
          description: Validation error
    get:
      summary: List content items, newest first
      parameters:
        - $ref: '#/components/parameters/Limit'
        - $ref: '#/components/parameters/Offset'
      responses:
        '200':
          description: Content items
  /queue/{id}:
    get:
      summary: Get a content item with its schedule entries
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        '200':
          description: Content item with entries
        '404':
          description: Not found
  /queue/upcoming:
    get:
      summary: List pending entries for enabled accounts, earliest first
      parameters:
        - $ref: '#/components/parameters/Limit'
      responses:
        '200':
          description: Upcoming entries
  /queue/stats:
    get:
      summary: Queue-wide statistics
      responses:
        '200':
          description: Statistics
  /queue/progress:
    get:
      summary: Per-item completion progress
      parameters:
        - $ref: '#/components/parameters/Limit'
        - $ref: '#/components/parameters/Offset'
      responses:
        '200':
          description: Progress rows
  /accounts:
    post:
      summary: Register an account or rebind its browser profile
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/RegisterAccountRequest'
      responses:
        '201':
          description: Account
        '400':
          description: Validation error
    get:
      summary: List accounts
      responses:
        '200':
          description: Accounts
  /accounts/{id}/enable:
    post:
      summary: Enable an account
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        '204':
          description: Enabled
        '404':
          description: Not found
  /accounts/{id}/disable:
    post:
      summary: Disable an account
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        '204':
          description: Disabled
        '404':
          description: Not found
  /accounts/{id}:
    delete:
      summary: Delete an account and its schedule entries
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        '204':
          description: Deleted
        '404':
          description: Not found
  /windows:
    get:
      summary: List platform posting windows
      responses:
        '200':
          description: Windows
  /windows/{platform}:
    put:
      summary: Update a platform posting window
      parameters:
        - name: platform
          in: path
          required: true
          schema:
            type: string
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/UpdateWindowRequest'
      responses:
        '200':
          description: Updated window
        '400':
          description: Validation error
        '404':
          description: Not found
  /media/upload:
    post:
      summary: Upload a media file to storage
      requestBody:
        required: true
        content:
          multipart/form-data:
            schema:
              type: object
              properties:
                file:
                  type: string
                  format: binary
      responses:
        '201':
          description: Uploaded
components:
  parameters:
    Limit:
      name: limit
      in: query
      schema:
        type: integer
        minimum: 1
        maximum: 100
    Offset:
      name: offset
      in: query
      schema:
        type: integer
        minimum: 0
  schemas:
    SubmitRequest:
      type: object
      required:
        - media_path
        - title
      properties:
        media_path:
          type: string
        title:
          type: string
        description:
          type: string
        link:
          type: string
    ContentItem:
      type: object
      properties:
        id:
          type: string
        media_path:
          type: string
        title:
          type: string
        description:
          type: string
        link:
          type: string
        created_at:
          type: string
          format: date-time
        completed_at:
          type: string
          format: date-time
          nullable: true
    RegisterAccountRequest:
      type: object
      required:
        - platform
        - name
        - profile_id
      properties:
        platform:
          type: string
          enum:
            - YouTube Shorts
            - LinkedIn Video
            - TikTok
            - Pinterest Idea
            - Twitter
        name:
          type: string
        profile_id:
          type: string
    UpdateWindowRequest:
      type: object
      properties:
        min_hour:
          type: integer
          minimum: 0
          maximum: 23
        max_hour:
          type: integer
          minimum: 0
          maximum: 23
        min_delay_minutes:
          type: integer
        max_delay_minutes:
          type: integer
        enabled:
          type: boolean
`)
