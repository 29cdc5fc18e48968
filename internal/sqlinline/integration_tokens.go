package sqlinline

const QSelectIntegrationToken = `--sql 1b364467-b9d3-4316-a79c-0d4d095b8390
select token
from integration_tokens
where user_id = $1::text and provider = $2::text
limit 1;
`

const QUpsertIntegrationToken = `--sql e714ea51-2aa5-4ee2-b876-a74ebc383fad
with incoming as (
    select
        $1::text as user_id,
        $2::text as provider,
        $3::text as token,
        coalesce($4::jsonb, '{}'::jsonb) as properties
)
insert into integration_tokens (user_id, provider, token, properties, created_at, updated_at)
values ((select user_id from incoming), (select provider from incoming), (select token from incoming), (select properties from incoming), now(), now())
on conflict (user_id, provider) do update set
    token = excluded.token,
    properties = excluded.properties,
    updated_at = now();
`
