package devkit

// Canned provider payloads shaped like the Instagram v1 API.
const (
	EmptyListResponse = `{"meta":{"code":200},"data":[]}`

	UserResponse = `{"meta":{"code":200},"data":{"id":"1574083","username":"snoopdogg","full_name":"Snoop Dogg","profile_picture":"https://cdn.example/p.jpg","bio":"This is my bio","website":"https://snoopdogg.com","counts":{"media":1320,"follows":420,"followed_by":3410}}}`

	UserListResponse = `{"meta":{"code":200},"data":[{"id":"1","username":"ana","full_name":"Ana","profile_picture":"https://cdn.example/a.jpg"},{"id":"2","username":"ben","full_name":"Ben","profile_picture":"https://cdn.example/b.jpg"}]}`

	MediaListResponse = `{"meta":{"code":200},"data":[{"id":"22699663","type":"image","created_time":"1296710327","link":"https://instagr.am/p/BWrVZ/","filter":"Earlybird","tags":["expobar"],"location":{"id":"833","latitude":37.77956816727314,"longitude":-122.41387367248539,"name":"Civic Center BART"},"comments":{"count":1,"data":[{"id":"420","created_time":"1296710352","text":"Wow","from":{"id":"2","username":"ben","full_name":"Ben","profile_picture":"https://cdn.example/b.jpg"}}]},"likes":{"count":1,"data":[{"id":"3","username":"cid","full_name":"Cid","profile_picture":"https://cdn.example/c.jpg"}]},"images":{"low_resolution":{"url":"https://cdn.example/l.jpg","width":306,"height":306},"thumbnail":{"url":"https://cdn.example/t.jpg","width":150,"height":150},"standard_resolution":{"url":"https://cdn.example/s.jpg","width":612,"height":612}},"caption":{"id":"26621408","created_time":"1296710352","text":"Inside le truc #foodtruck","from":{"id":"1","username":"ana","full_name":"Ana","profile_picture":"https://cdn.example/a.jpg"}},"user":{"id":"1","username":"ana","full_name":"Ana","profile_picture":"https://cdn.example/a.jpg"},"user_has_liked":false}]}`

	RelationshipResponse = `{"meta":{"code":200},"data":{"outgoing_status":"follows","incoming_status":"requested_by","target_user_is_private":false}}`

	TokenExchangeResponse = `{"access_token":"fb2e77d.47a0479900504cb3ab4a1f626d174d2d","user":{"id":"1574083","username":"snoopdogg","full_name":"Snoop Dogg","profile_picture":"https://cdn.example/p.jpg"}}`

	InvalidTokenResponse = `{"meta":{"error_type":"OAuthAccessTokenException","code":400,"error_message":"The access_token provided is invalid."}}`

	NotFoundResponse = `{"meta":{"error_type":"APINotFoundError","code":400,"error_message":"invalid media id"}}`

	TokenExchangeErrorResponse = `{"error_type":"OAuthException","code":400,"error_message":"No matching code found."}`
)
