package domain

// CommunityConfig records which role a community grants on successful verification.
type CommunityConfig struct {
	ID          Snowflake `json:"id" dynamodbav:"id"`
	GrantRoleID Snowflake `json:"grant_role_id" dynamodbav:"grant_role_id"`
}

// RegistryDocument is the durable form of the server registry: one document,
// rewritten in full on every change.
type RegistryDocument struct {
	Servers []CommunityConfig `json:"servers" dynamodbav:"servers"`
}
