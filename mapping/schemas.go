package mapping

// Record kinds understood by the default mapper.
const (
	KindUser          = "user"
	KindMedia         = "media"
	KindComment       = "comment"
	KindLike          = "like"
	KindTag           = "tag"
	KindLocation      = "location"
	KindRelationship  = "relationship"
	KindAuthorization = "authorization"
	KindEmpty         = "empty"
)

func UserSchema() Schema {
	return Schema{
		Kind: KindUser,
		Fields: Prefixed("user_", "",
			"username", "username",
			"id", "id",
			"full_name", "full_name",
			"profile_picture", "profile_picture",
			"bio", "bio",
			"website", "website",
			"counts_media", "counts.media",
			"counts_follows", "counts.follows",
			"counts_followed_by", "counts.followed_by",
		),
	}
}

func CommentSchema() Schema {
	return Schema{
		Kind: KindComment,
		Fields: Prefixed("comment_", "",
			"created_time", "created_time",
			"text", "text",
			"id", "id",
			"from_username", "from.username",
			"from_profile_picture", "from.profile_picture",
			"from_id", "from.id",
			"from_full_name", "from.full_name",
		),
	}
}

func LikeSchema() Schema {
	return Schema{
		Kind: KindLike,
		Fields: Prefixed("like_", "",
			"username", "username",
			"bio", "bio",
			"website", "website",
			"profile_picture", "profile_picture",
			"full_name", "full_name",
			"id", "id",
		),
	}
}

func TagSchema() Schema {
	return Schema{
		Kind: KindTag,
		Fields: Prefixed("tag_", "",
			"media_count", "media_count",
			"name", "name",
		),
	}
}

func LocationSchema() Schema {
	return Schema{
		Kind: KindLocation,
		Fields: Prefixed("location_", "",
			"id", "id",
			"name", "name",
			"latitude", "latitude",
			"longitude", "longitude",
		),
	}
}

func RelationshipSchema() Schema {
	return Schema{
		Kind: KindRelationship,
		Fields: []Field{
			Scalar("outgoing_status", "outgoing_status"),
			Scalar("target_user_is_private", "target_user_is_private"),
			Scalar("incoming_status", "incoming_status"),
		},
	}
}

func MediaSchema() Schema {
	var fields []Field
	for _, resolution := range []string{"low_resolution", "standard_resolution", "thumbnail"} {
		fields = append(fields,
			Scalar("image_"+resolution, "images."+resolution+".url"),
			Scalar("image_"+resolution+"_width", "images."+resolution+".width"),
			Scalar("image_"+resolution+"_height", "images."+resolution+".height"),
		)
	}
	fields = append(fields, Prefixed("location_", "location",
		"id", "id",
		"latitude", "latitude",
		"longitude", "longitude",
		"name", "name",
	)...)
	fields = append(fields, Prefixed("user_", "user",
		"username", "username",
		"full_name", "full_name",
		"profile_picture", "profile_picture",
		"id", "id",
	)...)
	fields = append(fields, Prefixed("image_", "",
		"id", "id",
		"type", "type",
		"filter", "filter",
		"link", "link",
	)...)
	fields = append(fields, Scalar("created_time", "created_time"))
	fields = append(fields, Prefixed("caption_", "caption",
		"created_time", "created_time",
		"text", "text",
		"id", "id",
		"from_username", "from.username",
		"from_full_name", "from.full_name",
		"from_type", "from.type",
		"from_id", "from.id",
	)...)
	fields = append(fields,
		Scalar("comments_count", "comments.count"),
		List("comments", "comments.data", CommentSchema()),
		Scalar("likes_count", "likes.count"),
		List("likes", "likes.data", LikeSchema()),
	)
	return Schema{Kind: KindMedia, Fields: fields}
}

// AuthorizationSchema maps a token exchange response, which carries the token
// and the authorizing user at the top level.
func AuthorizationSchema() Schema {
	fields := []Field{Scalar("access_token", "access_token")}
	fields = append(fields, Prefixed("user_", "user",
		"username", "username",
		"bio", "bio",
		"website", "website",
		"profile_picture", "profile_picture",
		"full_name", "full_name",
		"id", "id",
	)...)
	return Schema{Kind: KindAuthorization, Root: true, Fields: fields}
}

// EmptySchema maps acknowledgement responses that carry no entity.
func EmptySchema() Schema {
	return Schema{Kind: KindEmpty}
}

func DefaultSchemas() []Schema {
	return []Schema{
		UserSchema(),
		MediaSchema(),
		CommentSchema(),
		LikeSchema(),
		TagSchema(),
		LocationSchema(),
		RelationshipSchema(),
		AuthorizationSchema(),
		EmptySchema(),
	}
}
