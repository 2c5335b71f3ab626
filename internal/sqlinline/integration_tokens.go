package sqlinline

// QSelectProviderCredential returns the stored token and its properties for a
// provider such as the recommender endpoint.
const QSelectProviderCredential = `--sql 4b0f7f0e-61c2-4e47-9a3c-2d1f2a9b6c55
select token, coalesce(properties ->> 'model', '')
from integration_tokens
where provider = $1::text
limit 1;
`

const QUpsertProviderCredential = `--sql c7e1a4d8-9b53-4f0e-8d62-5a0b7e3f9c21
insert into integration_tokens (id, provider, token, properties, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb), now(), now())
on conflict (provider) do update set
    token = excluded.token,
    properties = excluded.properties,
    updated_at = now();
`

const QDeleteProviderCredential = `--sql e2d95b7a-3c4f-4a18-b0e6-81f7c2d4a903
delete from integration_tokens
where provider = $1::text;
`
