package utils

// Result caps for the public listing endpoints.
const (
	RandomSampleSize = 40
	TagResultLimit   = 20
	SearchLimit      = 40
)

// Default collection names inside the videos database.
const (
	VideoCollection = "videos"
	UserCollection  = "users"
)

// Gin context keys.
const (
	UserIDKey    = "userID"
	RequestIDKey = "requestID"
)

const ServiceName = "video-service"

/*curl commands =>

curl -X POST "http://localhost:8080/api/videos" -H "Authorization: Bearer $TOKEN" \
  -d '{"title":"A","desc":"first","imgUrl":"https://img","videoUrl":"https://vid","tags":["go","db"]}'

curl -X PUT "http://localhost:8080/api/videos/VIDEO_ID" -H "Authorization: Bearer $TOKEN" -d '{"title":"B"}'

curl -X DELETE "http://localhost:8080/api/videos/VIDEO_ID" -H "Authorization: Bearer $TOKEN"

curl "http://localhost:8080/api/videos/find/VIDEO_ID"

curl -X POST "http://localhost:8080/api/videos/VIDEO_ID/views"

curl -X PUT "http://localhost:8080/api/videos/view/VIDEO_ID"

curl "http://localhost:8080/api/videos/random"

curl "http://localhost:8080/api/videos/trend"

curl "http://localhost:8080/api/videos/sub" -H "Authorization: Bearer $TOKEN"

curl "http://localhost:8080/api/videos/tags?tags=go,db"

curl "http://localhost:8080/api/videos/search?q=golang"

*/
